package analytics

import (
	"context"

	domsvc "Cassandra/internal/domain/service"
	"Cassandra/pkg/config"
)

// HTTPPredictor calls an external model service that holds the trained
// classifier. The service owns loading and persistence of the artifact;
// this client only ships the feature vector and reads back the
// probability.
type HTTPPredictor struct {
	base *HTTPServiceBase
}

func NewHTTPPredictor(cfg *config.Config) *HTTPPredictor {
	return &HTTPPredictor{base: NewHTTPServiceBase(cfg)}
}

type predictReq struct {
	Features []float64 `json:"features"`
}

type predictResp struct {
	Probability float64 `json:"probability"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, features []float64) (float64, error) {
	var pr predictResp
	if err := p.base.PostJSONWithRetry(ctx, "/predict", predictReq{Features: features}, &pr, 3); err != nil {
		return 0, err
	}
	return pr.Probability, nil
}

var _ domsvc.Predictor = (*HTTPPredictor)(nil)

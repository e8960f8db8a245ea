package usecase

import (
	"context"
	"encoding/json"
	"time"

	"Cassandra/internal/domain/models"
	drepo "Cassandra/internal/domain/repository"
	"Cassandra/internal/domain/risk"
	pkgkafka "Cassandra/pkg/kafka"
)

// KafkaSnapshotsHandler scores indicator snapshots arriving over Kafka
// and stores the results. External producers push full snapshots; a
// malformed or incomplete one is rejected with its specific kind and
// ends up in the DLQ after the consumer's retries.
type KafkaSnapshotsHandler struct {
	topic           string
	assessor        *Assessor
	storage         drepo.AssessmentStore
	metrics         drepo.Metrics
	allowOutOfRange bool
}

func NewKafkaSnapshotsHandler(topic string, assessor *Assessor, storage drepo.AssessmentStore, metrics drepo.Metrics, allowOutOfRange bool) *KafkaSnapshotsHandler {
	return &KafkaSnapshotsHandler{
		topic:           topic,
		assessor:        assessor,
		storage:         storage,
		metrics:         metrics,
		allowOutOfRange: allowOutOfRange,
	}
}

func (h *KafkaSnapshotsHandler) Topic() string { return h.topic }

// incoming message schema: {indicators: {name: value}, ts}
func (h *KafkaSnapshotsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Indicators map[string]float64 `json:"indicators"`
		TS         int64              `json:"ts"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if m.TS > 1e11 { // ms
		m.TS = m.TS / 1000
	}
	// E2E latency from snapshot time to now (approx)
	if m.TS > 0 {
		h.metrics.RecordLatency("score_e2e_seconds", time.Since(time.Unix(m.TS, 0)).Seconds())
	}

	a, err := h.assessor.Assess(ctx, models.NewIndicatorSet(m.Indicators), models.SourceKafka, h.allowOutOfRange)
	if err != nil {
		h.metrics.RecordError("consumer_" + string(risk.KindOf(err)))
		return err
	}

	start := time.Now()
	if err := h.storage.Store(ctx, a); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	h.metrics.RecordAssessment(a.Source, a.Tier)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSnapshotsHandler)(nil)

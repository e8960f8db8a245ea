package models

// Requests for assessment HTTP endpoints. Defined in domain for consistency and reuse.

type AssessRequest struct {
	Indicators      map[string]float64 `json:"indicators" validate:"required,min=1"`
	AllowOutOfRange bool               `json:"allow_out_of_range"`
}

type LiveAssessRequest struct {
	AllowOutOfRange bool `query:"allow_out_of_range" json:"allow_out_of_range"`
}

type HistoryRequest struct {
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

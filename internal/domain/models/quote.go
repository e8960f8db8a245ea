package models

// Quote is one live value for a provider symbol, as delivered by the
// market data stream. The collector maps provider symbols back to
// schema indicator names.
type Quote struct {
	Symbol    string
	Price     float64
	Timestamp int64 // unix seconds
}

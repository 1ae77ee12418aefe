// Package queue defines message payloads exchanged over the message
// broker and the background consumers that process them.
package queue

// OutboundSMS is queued whenever the system wants a text message
// delivered: per-pickup notifications and the scheduled daily
// summaries both go through this queue so a provider outage never
// blocks the request path.
type OutboundSMS struct {
	Phone    string `json:"phone"` // normalized international format
	Body     string `json:"body"`
	Kind     string `json:"kind"` // "collection" | "daily_summary" | "otp"
	QueuedAt string `json:"queued_at"`
}

// CollectionRecorded is published after a collection record is
// successfully persisted. Downstream consumers log it and the linked
// supplier's client treats it as the signal to re-fetch and re-run
// full aggregation; the payload deliberately carries no running
// totals that a consumer could be tempted to patch incrementally.
type CollectionRecorded struct {
	CollectionID   uint64 `json:"collection_id"`
	SupplierID     uint64 `json:"supplier_id"`
	SupplierCode   string `json:"supplier_code"`
	CollectedOn    string `json:"collected_on"`
	QuantityLiters string `json:"quantity_liters"`
	RatePerLiter   string `json:"rate_per_liter"`
	TotalAmount    string `json:"total_amount"`
	RecordedBy     uint64 `json:"recorded_by"`
	RecordedAt     string `json:"recorded_at"`
}

// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// OrderPlacedQueue is the durable queue that carries OrderPlacedEvent.
const OrderPlacedQueue = "order.placed"

// OrderPlacedEvent is published after the factory accepted an order.  It
// carries enough for downstream consumers to log or run analytics without
// querying the primary database.
type OrderPlacedEvent struct {
	OrderID     uint64  `json:"order_id"`
	DinerID     uint64  `json:"diner_id"`
	FranchiseID uint64  `json:"franchise_id"`
	StoreID     uint64  `json:"store_id"`
	ItemCount   int     `json:"item_count"`
	Total       float64 `json:"total"`
	ReportURL   string  `json:"report_url,omitempty"`
	PlacedAt    string  `json:"placed_at"`
}

package model

import "time"

// OrderItem is one line of a diner order (`orderItem` table).  Description
// and Price are copied from the menu at ordering time.
type OrderItem struct {
	ID          uint64  `json:"id,omitempty"`
	MenuID      uint64  `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order represents a diner order placed at a franchise store.
//
// Fields:
//
//	ID          – dinerOrder.id.
//	DinerID     – user who placed the order.
//	FranchiseID – franchise fulfilling the order.
//	StoreID     – store within the franchise.
//	Date        – creation time (UTC).
//	Items       – ordered menu items.
type Order struct {
	ID          uint64      `json:"id"`
	DinerID     uint64      `json:"-"`
	FranchiseID uint64      `json:"franchiseId"`
	StoreID     uint64      `json:"storeId"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
}

// Total sums the item prices.
func (o Order) Total() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price
	}
	return sum
}

package model

// Franchise is a pizza brand that operates one or more stores.  Admins and
// Stores are only populated when the caller is allowed to see them.
type Franchise struct {
	ID     uint64           `json:"id"`
	Name   string           `json:"name"`
	Admins []FranchiseAdmin `json:"admins,omitempty"`
	Stores []Store          `json:"stores"`
}

// FranchiseAdmin is the public view of a user holding a franchisee role.
type FranchiseAdmin struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store is a physical location of a franchise.  TotalRevenue is the sum of
// all order item prices for orders placed at the store; it is only filled
// for franchise administrators.
type Store struct {
	ID           uint64   `json:"id"`
	FranchiseID  uint64   `json:"-"`
	Name         string   `json:"name"`
	TotalRevenue *float64 `json:"totalRevenue,omitempty"`
}

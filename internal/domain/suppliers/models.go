package suppliers

import "time"

// Transaction is an amount owed to or paid to a supplier.
type Transaction struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	TotalAmount float64    `json:"totalAmount"`
	PaidStatus  string     `json:"paidStatus"`
	PaidDate    *time.Time `json:"paidDate"`
	IsPayable   bool       `json:"isPayable"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Draft struct {
	Description string
	TotalAmount float64
	PaidStatus  string
}

type Filter struct {
	Search     string
	PaidStatus string
}

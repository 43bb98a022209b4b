// Package catalog holds the ERP resources served by the development backend.
package catalog

import "time"

type Product struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Price int64  `json:"price_cents"`
	Stock int64  `json:"stock_milli"`
}

type OrderStatus string

const (
	OrderNew       OrderStatus = "new"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderNew, OrderConfirmed, OrderShipped, OrderCancelled:
		return true
	}
	return false
}

type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity_milli"`
	Price     int64  `json:"price_cents"`
}

type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	Lines      []OrderLine `json:"lines"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
}

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

type Document struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	SupplierID string         `json:"supplier_id"`
	Status     DocumentStatus `json:"status"`
	ReviewedBy string         `json:"reviewed_by,omitempty"`
	Comment    string         `json:"comment,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

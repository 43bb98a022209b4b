package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Product is a stock item: a cut, a carcass or packaged goods.
type Product struct {
	ID    string `json:"id"`
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Price int64  `json:"price_cents"`
	// Stock is in units of Unit, scaled by 1000 so weights stay exact.
	Stock int64 `json:"stock_milli"`
}

type OrderStatus string

const (
	OrderNew       OrderStatus = "new"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

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

// Total is the order value in cents.
func (o Order) Total() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.Quantity * l.Price / 1000
	}
	return total
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

// Document is a veterinary or supply certificate awaiting review.
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

var ErrIncorrectFilter = errors.New("filter must be name=value")

// FiltersFromStrings turns name=value arguments into list query parameters.
func FiltersFromStrings(s []string) (url.Values, error) {
	q := url.Values{}
	for _, item := range s {
		name, value, ok := strings.Cut(item, "=")
		if !ok || name == "" || strings.Contains(value, "=") {
			return nil, ErrIncorrectFilter
		}
		q.Add(name, value)
	}
	return q, nil
}

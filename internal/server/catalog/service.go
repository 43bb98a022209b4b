package catalog

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
)

// Service owns every collection of the backend.
type Service struct {
	Products  *Collection[Product]
	Orders    *Collection[Order]
	Suppliers *Collection[Supplier]
	Customers *Collection[Customer]
	Documents *Collection[Document]
	Messages  *Collection[Message]
}

func NewService() *Service {
	return &Service{
		Products:  NewCollection(func(p *Product) *string { return &p.ID }),
		Orders:    NewCollection(func(o *Order) *string { return &o.ID }),
		Suppliers: NewCollection(func(s *Supplier) *string { return &s.ID }),
		Customers: NewCollection(func(c *Customer) *string { return &c.ID }),
		Documents: NewCollection(func(d *Document) *string { return &d.ID }),
		Messages:  NewCollection(func(m *Message) *string { return &m.ID }),
	}
}

// ReviewDocument approves or rejects a pending document.
func (s *Service) ReviewDocument(id string, approve bool, reviewer, comment string) (Document, error) {
	return s.Documents.Update(id, func(d *Document) error {
		if d.Status != DocumentPending {
			return fmt.Errorf("%w: document already %s", common.ErrorValidation, d.Status)
		}
		d.Status = DocumentRejected
		if approve {
			d.Status = DocumentApproved
		}
		d.ReviewedBy = reviewer
		d.Comment = comment
		return nil
	})
}

// SetOrderStatus moves an order to status. Shipped and cancelled orders are final.
func (s *Service) SetOrderStatus(id string, status OrderStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return s.Orders.Update(id, func(o *Order) error {
		if o.Status == OrderShipped || o.Status == OrderCancelled {
			return fmt.Errorf("%w: order already %s", common.ErrorValidation, o.Status)
		}
		o.Status = status
		return nil
	})
}

// CreateOrder validates lines against the product list and prices them.
func (s *Service) CreateOrder(o Order) (Order, error) {
	if _, err := s.Customers.Get(o.CustomerID); err != nil {
		return Order{}, fmt.Errorf("%w: unknown customer", common.ErrorValidation)
	}
	if len(o.Lines) == 0 {
		return Order{}, fmt.Errorf("%w: order has no lines", common.ErrorValidation)
	}
	for i, l := range o.Lines {
		p, err := s.Products.Get(l.ProductID)
		if err != nil {
			return Order{}, fmt.Errorf("%w: unknown product %q", common.ErrorValidation, l.ProductID)
		}
		if l.Quantity <= 0 {
			return Order{}, fmt.Errorf("%w: quantity must be positive", common.ErrorValidation)
		}
		o.Lines[i].Price = p.Price
	}
	o.Status = OrderNew
	o.CreatedAt = time.Now().UTC()
	return s.Orders.Create(o), nil
}

// Seed fills the collections with a small demo data set.
func (s *Service) Seed() {
	farm := s.Suppliers.Create(Supplier{Name: "Lejas Farm", Contact: "Andris", Phone: "+371 2000 0001"})
	abattoir := s.Suppliers.Create(Supplier{Name: "Riga Abattoir", Contact: "Ilze", Phone: "+371 2000 0002"})

	belly := s.Products.Create(Product{SKU: "PRK-BEL", Name: "Pork belly", Unit: "kg", Price: 950, Stock: 42500})
	s.Products.Create(Product{SKU: "BEF-BRS", Name: "Beef brisket", Unit: "kg", Price: 1490, Stock: 18000})
	sausage := s.Products.Create(Product{SKU: "SAU-SMK", Name: "Smoked sausage", Unit: "pcs", Price: 420, Stock: 120000})

	deli := s.Customers.Create(Customer{Name: "Old Town Deli", Email: "orders@oldtowndeli.example", Address: "Kalku 1"})
	s.Customers.Create(Customer{Name: "Harbour Cafe", Email: "chef@harbour.example", Address: "Eksporta 5"})

	now := time.Now().UTC()
	s.Orders.Create(Order{CustomerID: deli.ID, Status: OrderNew, CreatedAt: now, Lines: []OrderLine{
		{ProductID: belly.ID, Quantity: 5000, Price: belly.Price},
		{ProductID: sausage.ID, Quantity: 20000, Price: sausage.Price},
	}})

	s.Documents.Create(Document{Title: "Veterinary certificate #1182", SupplierID: farm.ID, Status: DocumentPending})
	s.Documents.Create(Document{Title: "Slaughter record 2024-W12", SupplierID: abattoir.ID, Status: DocumentPending})

	s.Messages.Create(Message{From: "Lejas Farm", Subject: "Delivery Friday", Body: "Two carcasses, 06:00.", CreatedAt: now})
}

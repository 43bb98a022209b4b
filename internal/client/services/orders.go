package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
)

type OrderService struct {
	*Resource[models.Order]
}

func NewOrderService(client Client) *OrderService {
	return &OrderService{Resource: NewResource[models.Order](client, OrdersPath)}
}

type statusPatch struct {
	Status models.OrderStatus `json:"status"`
}

// SetStatus moves the order to status.
func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	if err := s.client.DoJSON(ctx, http.MethodPatch, s.itemPath(id), statusPatch{Status: status}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

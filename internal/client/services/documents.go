package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
)

// DocumentService reviews supplier and veterinary documents.
type DocumentService struct {
	*Resource[models.Document]
}

func NewDocumentService(client Client) *DocumentService {
	return &DocumentService{Resource: NewResource[models.Document](client, DocumentsPath)}
}

type reviewRequest struct {
	Comment string `json:"comment,omitempty"`
}

// Approve marks the document approved. The backend answers 403 unless the
// user may review documents.
func (s *DocumentService) Approve(ctx context.Context, id, comment string) (*models.Document, error) {
	return s.review(ctx, id, "approve", comment)
}

// Reject marks the document rejected.
func (s *DocumentService) Reject(ctx context.Context, id, comment string) (*models.Document, error) {
	return s.review(ctx, id, "reject", comment)
}

func (s *DocumentService) review(ctx context.Context, id, action, comment string) (*models.Document, error) {
	var doc models.Document
	err := s.client.DoJSON(ctx, http.MethodPost, s.itemPath(id)+action+"/", reviewRequest{Comment: comment}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

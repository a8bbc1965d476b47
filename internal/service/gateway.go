package service

import (
	"context"

	"github.com/Bry504/red-de-agencias/internal/infra"
)

// CRMGateway is the outbound surface to HighLevel. Services depend on this
// interface so tests can stub the CRM without HTTP.
type CRMGateway interface {
	UpsertContact(ctx context.Context, body infra.ContactUpsert) (string, error)
	CreateNote(ctx context.Context, contactID, contenido string) error
	CreateOpportunity(ctx context.Context, body infra.OpportunityCreate) error
}

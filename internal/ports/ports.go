package ports

import (
	"context"
	"io"

	"alevatex/internal/domain"
)

// Submissions runs the contact form flow.
type Submissions interface {
	Submit(ctx context.Context, fields map[string]string) (lead domain.Lead, state domain.FormState, err error)
}

// Leads backs the admin listing view.
type Leads interface {
	List(ctx context.Context, search string, filter domain.StatusFilter) []domain.Lead
	Get(ctx context.Context, id string) (domain.Lead, error)
	SetStatus(ctx context.Context, id string, status domain.Status) error
	Advance(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, confirmed bool) error
	ExportCSV(ctx context.Context, w io.Writer) error
	Stats(ctx context.Context) domain.Stats
}

package ads

import (
	"context"

	"github.com/adtrail/adtrail/pkg/pagination"
)

// System defines the public contract for ad domain operations. Submit,
// Suppress, and Search surface failures to the caller; everything inside the
// detached image pipeline is terminal and logged.
type System interface {
	Handler() *Handler

	Submit(ctx context.Context, sub Submission, lang string) (*Ad, error)
	Suppress(ctx context.Context, id string) error
	Search(ctx context.Context, lang string, page pagination.PageRequest) ([]Ad, error)
	Find(ctx context.Context, id string) (*Ad, error)

	// UpdateContent is the pipeline's persistence hook; it is part of the
	// interface so pipeline tests can substitute the persister.
	UpdateContent(ctx context.Context, id string, update ContentUpdate) error
}

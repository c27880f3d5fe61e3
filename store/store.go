// Package store isolates the document store behind one interface so every
// engine component can run against Postgres in production and an in-memory
// fake in tests.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/formworks/form-server/models"
)

// ErrNotFound is returned for lookups that match nothing. Callers decide
// whether that is a 404 or a FormUnavailable.
var ErrNotFound = errors.New("store: not found")

// ResponseFilter narrows and pages a response listing. Zero values mean
// "no constraint"; a Limit of 0 returns everything.
type ResponseFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type Store interface {
	// CreateForm persists a new form with its fields and assigns its id.
	CreateForm(ctx context.Context, form *models.Form) error
	// GetForm loads one form with fields in position order, regardless of
	// its active flag.
	GetForm(ctx context.Context, id uint) (*models.Form, error)
	// GetFormBySlug resolves the first form carrying the slug (slugs are
	// not unique; first match wins, ordered by id).
	GetFormBySlug(ctx context.Context, slug string) (*models.Form, error)
	// ListForms returns every form, newest first, fields included.
	ListForms(ctx context.Context) ([]models.Form, error)
	// ReplaceForm updates a form's metadata and replaces its field set
	// atomically. Slug, creation time and response counter are left alone.
	ReplaceForm(ctx context.Context, form *models.Form) error
	// SetFormActive flips the publication flag.
	SetFormActive(ctx context.Context, id uint, active bool) error
	// DeleteForm removes the form, its fields, and every response with its
	// answers, all or nothing.
	DeleteForm(ctx context.Context, id uint) error

	// SubmitResponse persists a validated response and atomically
	// increments the owning form's response counter in the same
	// transaction.
	SubmitResponse(ctx context.Context, resp *models.Response) error
	// ListResponses returns a form's responses ordered by submission time
	// descending, answers included.
	ListResponses(ctx context.Context, formID uint, f ResponseFilter) ([]models.Response, error)
	// CountResponses is the ground-truth record count under the filter.
	CountResponses(ctx context.Context, formID uint, f ResponseFilter) (int64, error)
	// GetResponse loads one response scoped to a form.
	GetResponse(ctx context.Context, formID, id uint) (*models.Response, error)
	// DeleteResponse removes exactly one record. The form's response
	// counter is intentionally not decremented.
	DeleteResponse(ctx context.Context, formID, id uint) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

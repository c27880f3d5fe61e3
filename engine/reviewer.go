package engine

import (
	"context"
	"time"

	"github.com/formworks/form-server/fieldtype"
	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

// RemovedFieldPlaceholder labels answers whose field the author deleted
// after submissions were collected. Such answers are rendered, never
// dropped and never an error.
const RemovedFieldPlaceholder = "(field removed)"

// RenderedAnswer is one reviewer-facing cell: the field's prompt (or the
// removed-field placeholder) and the display text of the stored value.
type RenderedAnswer struct {
	FieldID string `json:"field_id"`
	Prompt  string `json:"prompt"`
	Removed bool   `json:"removed,omitempty"`
	Value   string `json:"value"`
}

// RenderedResponse is one response flattened against the form's current
// field order.
type RenderedResponse struct {
	ID          uint             `json:"id"`
	SubmittedAt time.Time        `json:"submitted_at"`
	ClientMeta  string           `json:"client_meta,omitempty"`
	Answers     []RenderedAnswer `json:"answers"`
}

// RenderResponse renders a stored record per field in the form's current
// order, then appends stray answers (deleted fields) under the
// removed-field placeholder. Pure; no store access.
func RenderResponse(form *models.Form, resp *models.Response) RenderedResponse {
	out := RenderedResponse{
		ID:          resp.ID,
		SubmittedAt: resp.SubmittedAt,
		ClientMeta:  resp.ClientMeta,
		Answers:     make([]RenderedAnswer, 0, len(form.Fields)),
	}

	known := make(map[string]bool, len(form.Fields))
	for i := range form.Fields {
		f := &form.Fields[i]
		known[f.ID] = true
		cell := RenderedAnswer{FieldID: f.ID, Prompt: f.Prompt}
		if a, ok := resp.AnswerFor(f.ID); ok {
			cell.Value = fieldtype.Display(a.Value)
		}
		out.Answers = append(out.Answers, cell)
	}

	for i := range resp.Answers {
		a := &resp.Answers[i]
		if known[a.FieldID] {
			continue
		}
		out.Answers = append(out.Answers, RenderedAnswer{
			FieldID: a.FieldID,
			Prompt:  RemovedFieldPlaceholder,
			Removed: true,
			Value:   fieldtype.Display(a.Value),
		})
	}
	return out
}

// Stats are the operator-facing aggregate numbers for one form. Total is
// the ground-truth record count; StoredCount is the form's approximate
// append-only counter, reported alongside but never trusted for anything
// beyond a fast stat.
type Stats struct {
	Total       int64 `json:"total"`
	Today       int64 `json:"today"`
	StoredCount int   `json:"stored_count"`
}

// Reviewer reads and aggregates persisted responses.
type Reviewer struct {
	Store store.Store
}

// List loads a page of rendered responses, newest first, plus the
// unpaginated total under the same filter.
func (r Reviewer) List(ctx context.Context, form *models.Form, f store.ResponseFilter) ([]RenderedResponse, int64, error) {
	total, err := r.Store.CountResponses(ctx, form.ID, f)
	if err != nil {
		return nil, 0, err
	}
	records, err := r.Store.ListResponses(ctx, form.ID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RenderedResponse, 0, len(records))
	for i := range records {
		out = append(out, RenderResponse(form, &records[i]))
	}
	return out, total, nil
}

// Stats computes the aggregate counts; "today" means since local midnight.
func (r Reviewer) Stats(ctx context.Context, form *models.Form) (Stats, error) {
	total, err := r.Store.CountResponses(ctx, form.ID, store.ResponseFilter{})
	if err != nil {
		return Stats{}, err
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := r.Store.CountResponses(ctx, form.ID, store.ResponseFilter{From: &midnight})
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Today: today, StoredCount: form.ResponseCount}, nil
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/formworks/form-server/blob"
	"github.com/formworks/form-server/fieldtype"
	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

// ErrFormUnavailable is a resource-resolution failure: the form does not
// exist or is not active. Respondents see it as "form not found or closed",
// distinct from any validation error.
var ErrFormUnavailable = errors.New("form unavailable")

// Draft is a respondent's in-progress input, keyed by field id. It lives
// only for the duration of one render/submit exchange; abandoning it leaves
// no trace.
type Draft map[string]fieldtype.RawValue

// Renderer resolves published forms, renders their input surfaces,
// validates drafts and hands validated answers to the store.
type Renderer struct {
	Store store.Store
	Blob  blob.Storage
}

// Resolve fetches a form for respondents by slug, falling back to treating
// the token as a numeric id. Only active forms resolve; everything else is
// ErrFormUnavailable.
func (r Renderer) Resolve(ctx context.Context, slugOrID string) (*models.Form, error) {
	form, err := r.Store.GetFormBySlug(ctx, slugOrID)
	if errors.Is(err, store.ErrNotFound) {
		id, convErr := strconv.ParseUint(slugOrID, 10, 32)
		if convErr != nil {
			return nil, ErrFormUnavailable
		}
		form, err = r.Store.GetForm(ctx, uint(id))
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFormUnavailable
		}
	}
	if err != nil {
		return nil, err
	}
	if !form.Active {
		return nil, ErrFormUnavailable
	}
	return form, nil
}

// RenderForm produces the input surface for every field in schema order,
// seeded with the draft so partial input survives a validation round-trip.
func RenderForm(form *models.Form, draft Draft) []fieldtype.InputDescriptor {
	out := make([]fieldtype.InputDescriptor, 0, len(form.Fields))
	for i := range form.Fields {
		f := &form.Fields[i]
		out = append(out, fieldtype.Render(f, draftValue(f, draft[f.ID])))
	}
	return out
}

// draftValue echoes unvalidated draft input back into a descriptor seed.
func draftValue(f *models.Field, raw fieldtype.RawValue) *models.AnswerValue {
	if raw.IsEmpty() {
		return nil
	}
	v := models.AnswerValue{Kind: f.Kind, Text: raw.Text, Choices: raw.Choices, File: raw.File}
	return &v
}

// ValidateDraft runs every field through the registry, collecting all
// failures rather than stopping at the first, keyed by field id. The
// answers map is only meaningful when the error map is empty.
func ValidateDraft(form *models.Form, draft Draft) (map[string]models.AnswerValue, map[string]*fieldtype.ValidationError) {
	answers := make(map[string]models.AnswerValue)
	errs := make(map[string]*fieldtype.ValidationError)
	for i := range form.Fields {
		f := &form.Fields[i]
		v, verr := fieldtype.Validate(f, draft[f.ID])
		if verr != nil {
			errs[f.ID] = verr
			continue
		}
		if v != nil {
			answers[f.ID] = *v
		}
	}
	return answers, errs
}

// RenderWithErrors re-renders a rejected draft with inline errors attached
// to each offending field.
func RenderWithErrors(form *models.Form, draft Draft, errs map[string]*fieldtype.ValidationError) []fieldtype.InputDescriptor {
	surface := RenderForm(form, draft)
	for i := range surface {
		surface[i].Error = errs[surface[i].FieldID]
	}
	return surface
}

// Submit validates the draft and, only on zero errors, uploads any file
// answers to blob storage and persists the response. The store write and
// the counter increment happen in one store transaction.
func (r Renderer) Submit(ctx context.Context, form *models.Form, draft Draft, clientMeta string) (*models.Response, map[string]*fieldtype.ValidationError, error) {
	answers, errs := ValidateDraft(form, draft)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	resp := &models.Response{
		FormID:     form.ID,
		ClientMeta: clientMeta,
	}
	for i := range form.Fields {
		f := &form.Fields[i]
		v, ok := answers[f.ID]
		if !ok {
			continue
		}
		if v.Kind == models.KindFileUpload {
			raw := draft[f.ID]
			if raw.Data == nil {
				return nil, nil, fmt.Errorf("file answer for field %s has no content", f.ID)
			}
			ref, err := r.Blob.Store(ctx, raw.Data, v.File.Name, v.File.MimeType)
			if err != nil {
				return nil, nil, fmt.Errorf("store upload: %w", err)
			}
			fd := *v.File
			fd.Ref = ref
			v.File = &fd
		}
		resp.Answers = append(resp.Answers, models.Answer{FieldID: f.ID, Value: v})
	}

	if err := r.Store.SubmitResponse(ctx, resp); err != nil {
		return nil, nil, err
	}
	return resp, nil, nil
}

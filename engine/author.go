// Package engine holds the form engine's core behavior: authoring and
// committing schemas, resolving and validating respondent submissions, and
// rendering or exporting collected responses. Everything here is
// transport-agnostic; the HTTP controllers are thin wrappers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

// ErrIncompleteForm rejects a commit whose draft fails the publish
// preconditions. Nothing is persisted on this error.
var ErrIncompleteForm = errors.New("incomplete form")

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a title: lowercase,
// non-alphanumeric runs collapsed to a single hyphen, leading and trailing
// hyphens trimmed. The transform is lossy and enforces no uniqueness; slug
// lookups resolve first match.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = reNonSlug.ReplaceAllLiteralString(s, "-")
	return strings.Trim(s, "-")
}

// NewField seeds a draft field of the given kind: fresh unique id, not
// required, empty prompt, and a single placeholder option for choice kinds.
func NewField(kind models.FieldKind) models.Field {
	f := models.Field{
		ID:       uuid.NewString(),
		Kind:     kind,
		Required: false,
	}
	if kind.HasOptions() {
		f.Options = []string{"Option 1"}
	}
	return f
}

// AddOption appends a placeholder option to a choice field's draft.
func AddOption(f *models.Field) {
	f.Options = append(f.Options, fmt.Sprintf("Option %d", len(f.Options)+1))
}

// RemoveOption drops one option from a choice field's draft. The last
// option cannot be removed: a persisted choice field never has fewer than
// one entry.
func RemoveOption(f *models.Field, i int) error {
	if i < 0 || i >= len(f.Options) {
		return fmt.Errorf("option index %d out of range", i)
	}
	if len(f.Options) == 1 {
		return errors.New("a choice field keeps at least one option")
	}
	f.Options = append(f.Options[:i], f.Options[i+1:]...)
	return nil
}

// MoveField reorders the draft's field list in place.
func MoveField(form *models.Form, from, to int) error {
	n := len(form.Fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("field index out of range")
	}
	f := form.Fields[from]
	rest := append(form.Fields[:from], form.Fields[from+1:]...)
	form.Fields = append(rest[:to], append([]models.Field{f}, rest[to:]...)...)
	return nil
}

// Author owns schema mutation against the store.
type Author struct {
	Store store.Store
}

// Commit publishes a draft, all or nothing. On first creation it derives
// the slug from the title and starts the response counter at zero; on edit
// it preserves id, slug, creation time and counter even if the title
// changed. Option lists on non-choice kinds are stripped before the draft
// reaches the store.
func (a Author) Commit(ctx context.Context, draft *models.Form) (*models.Form, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}
	normalize(draft)

	if draft.ID == 0 {
		draft.Slug = Slugify(draft.Title)
		draft.ResponseCount = 0
		if err := a.Store.CreateForm(ctx, draft); err != nil {
			return nil, err
		}
		return a.Store.GetForm(ctx, draft.ID)
	}

	if err := a.Store.ReplaceForm(ctx, draft); err != nil {
		return nil, err
	}
	return a.Store.GetForm(ctx, draft.ID)
}

func checkDraft(draft *models.Form) error {
	var reasons []string
	if strings.TrimSpace(draft.Title) == "" {
		reasons = append(reasons, "title is empty")
	}
	if len(draft.Fields) == 0 {
		reasons = append(reasons, "form has no fields")
	}
	for i, f := range draft.Fields {
		if !f.Kind.Known() {
			reasons = append(reasons, fmt.Sprintf("field %d has unknown kind %q", i+1, f.Kind))
			continue
		}
		if strings.TrimSpace(f.Prompt) == "" {
			reasons = append(reasons, fmt.Sprintf("field %d has an empty prompt", i+1))
		}
		if f.Kind.HasOptions() && len(f.Options) == 0 {
			reasons = append(reasons, fmt.Sprintf("field %d needs at least one option", i+1))
		}
	}
	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", ErrIncompleteForm, strings.Join(reasons, "; "))
	}
	return nil
}

// normalize protects the stored document against partially-typed client
// state: stray option lists dropped, ids assigned where missing, positions
// rewritten to the draft order.
func normalize(draft *models.Form) {
	for i := range draft.Fields {
		f := &draft.Fields[i]
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if !f.Kind.HasOptions() {
			f.Options = nil
		}
		f.Position = i
	}
}

// ToggleActive flips publication and returns the new state.
func (a Author) ToggleActive(ctx context.Context, id uint) (bool, error) {
	form, err := a.Store.GetForm(ctx, id)
	if err != nil {
		return false, err
	}
	next := !form.Active
	if err := a.Store.SetFormActive(ctx, id, next); err != nil {
		return false, err
	}
	return next, nil
}

// Delete removes a form together with every response collected for it. The
// cascade is the author's responsibility, not the store schema's; a partial
// failure surfaces as one retryable error with no rollback attempt.
func (a Author) Delete(ctx context.Context, id uint) error {
	return a.Store.DeleteForm(ctx, id)
}

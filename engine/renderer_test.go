package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formworks/form-server/blob"
	"github.com/formworks/form-server/fieldtype"
	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

func newTestRenderer(t *testing.T) (Renderer, *store.Memory, *models.Form) {
	t.Helper()
	st := store.NewMemory()
	form, err := Author{Store: st}.Commit(context.Background(), contactSurveyDraft())
	require.NoError(t, err)
	return Renderer{Store: st, Blob: blob.NewMemory()}, st, form
}

func TestResolve(t *testing.T) {
	r, st, form := newTestRenderer(t)
	ctx := context.Background()

	bySlug, err := r.Resolve(ctx, "contact-survey")
	require.NoError(t, err)
	assert.Equal(t, form.ID, bySlug.ID)

	byID, err := r.Resolve(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, form.ID, byID.ID)

	_, err = r.Resolve(ctx, "no-such-form")
	assert.ErrorIs(t, err, ErrFormUnavailable)

	require.NoError(t, st.SetFormActive(ctx, form.ID, false))
	_, err = r.Resolve(ctx, "contact-survey")
	assert.ErrorIs(t, err, ErrFormUnavailable, "inactive forms are unavailable to respondents")
}

func TestRenderFormSeedsDraft(t *testing.T) {
	_, _, form := newTestRenderer(t)

	nameID := form.Fields[0].ID
	draft := Draft{nameID: fieldtype.RawValue{Text: "Ada"}}

	surface := RenderForm(form, draft)
	require.Len(t, surface, 2)
	assert.Equal(t, nameID, surface[0].FieldID)
	require.NotNil(t, surface[0].Value)
	assert.Equal(t, "Ada", surface[0].Value.Text)
	assert.Nil(t, surface[1].Value)
}

func TestSubmitMissingRequired(t *testing.T) {
	r, st, form := newTestRenderer(t)
	ctx := context.Background()

	// Scenario B: required Name left empty.
	resp, verrs, err := r.Submit(ctx, form, Draft{
		form.Fields[0].ID: fieldtype.RawValue{Text: ""},
	}, "")
	require.NoError(t, err)
	assert.Nil(t, resp)
	require.Contains(t, verrs, form.Fields[0].ID)
	assert.Equal(t, fieldtype.CodeMissingRequired, verrs[form.Fields[0].ID].Code)

	n, err := st.CountResponses(ctx, form.ID, store.ResponseFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "no record is created on validation failure")
	got, _ := st.GetForm(ctx, form.ID)
	assert.Zero(t, got.ResponseCount)
}

func TestSubmitUnknownOption(t *testing.T) {
	r, st, form := newTestRenderer(t)
	ctx := context.Background()

	// Scenario C: Music is not an authored option.
	resp, verrs, err := r.Submit(ctx, form, Draft{
		form.Fields[0].ID: {Text: "Ada"},
		form.Fields[1].ID: {Choices: []string{"Tech", "Music"}},
	}, "")
	require.NoError(t, err)
	assert.Nil(t, resp)
	require.Contains(t, verrs, form.Fields[1].ID)
	assert.Equal(t, fieldtype.CodeUnknownOption, verrs[form.Fields[1].ID].Code)

	n, _ := st.CountResponses(ctx, form.ID, store.ResponseFilter{})
	assert.Zero(t, n)
}

func TestSubmitCollectsAllErrors(t *testing.T) {
	r, _, form := newTestRenderer(t)

	_, verrs, err := r.Submit(context.Background(), form, Draft{
		form.Fields[1].ID: {Choices: []string{"Jazz"}},
	}, "")
	require.NoError(t, err)
	assert.Len(t, verrs, 2, "missing Name and unknown Interests both reported")

	surface := RenderWithErrors(form, Draft{form.Fields[1].ID: {Choices: []string{"Jazz"}}}, verrs)
	require.NotNil(t, surface[0].Error)
	require.NotNil(t, surface[1].Error)
	require.NotNil(t, surface[1].Value, "draft input survives the error round-trip")
}

func TestSubmitPersistsAndIncrements(t *testing.T) {
	r, st, form := newTestRenderer(t)
	ctx := context.Background()

	// Scenario D.
	resp, verrs, err := r.Submit(ctx, form, Draft{
		form.Fields[0].ID: {Text: "Ada"},
		form.Fields[1].ID: {Choices: []string{"Tech"}},
	}, "test-agent")
	require.NoError(t, err)
	require.Empty(t, verrs)
	require.NotNil(t, resp)
	assert.False(t, resp.SubmittedAt.IsZero())
	assert.Equal(t, "test-agent", resp.ClientMeta)

	require.Len(t, resp.Answers, 2)
	name, ok := resp.AnswerFor(form.Fields[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Ada", name.Value.Text)
	interests, ok := resp.AnswerFor(form.Fields[1].ID)
	require.True(t, ok)
	assert.Equal(t, []string{"Tech"}, interests.Value.Choices)

	got, err := st.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ResponseCount)
}

func TestSubmitOmitsUnansweredOptional(t *testing.T) {
	r, _, form := newTestRenderer(t)

	resp, verrs, err := r.Submit(context.Background(), form, Draft{
		form.Fields[0].ID: {Text: "Ada"},
	}, "")
	require.NoError(t, err)
	require.Empty(t, verrs)
	require.Len(t, resp.Answers, 1)
	_, ok := resp.AnswerFor(form.Fields[1].ID)
	assert.False(t, ok)
}

func TestSubmitUploadsFiles(t *testing.T) {
	st := store.NewMemory()
	bl := blob.NewMemory()
	ctx := context.Background()

	upload := NewField(models.KindFileUpload)
	upload.Prompt = "CV"
	upload.Required = true
	form, err := Author{Store: st}.Commit(ctx, &models.Form{
		Title:  "Job Application",
		Fields: []models.Field{upload},
	})
	require.NoError(t, err)

	r := Renderer{Store: st, Blob: bl}
	content := "%PDF-1.4 fake"
	resp, verrs, err := r.Submit(ctx, form, Draft{
		form.Fields[0].ID: {
			File: &models.FileDescriptor{Name: "cv.pdf", ByteSize: int64(len(content)), MimeType: "application/pdf"},
			Data: strings.NewReader(content),
		},
	}, "")
	require.NoError(t, err)
	require.Empty(t, verrs)

	a, ok := resp.AnswerFor(form.Fields[0].ID)
	require.True(t, ok)
	require.NotNil(t, a.Value.File)
	assert.NotEmpty(t, a.Value.File.Ref)

	stored, ok := bl.Object(a.Value.File.Ref)
	require.True(t, ok)
	assert.Equal(t, content, string(stored))
}

func TestSubmitRoundTripsThroughReviewer(t *testing.T) {
	r, st, form := newTestRenderer(t)
	ctx := context.Background()

	resp, verrs, err := r.Submit(ctx, form, Draft{
		form.Fields[0].ID: {Text: "Ada"},
		form.Fields[1].ID: {Choices: []string{"Tech", "Art"}},
	}, "")
	require.NoError(t, err)
	require.Empty(t, verrs)

	stored, err := st.GetResponse(ctx, form.ID, resp.ID)
	require.NoError(t, err)
	rendered := RenderResponse(form, stored)
	require.Len(t, rendered.Answers, 2)
	assert.Equal(t, "Ada", rendered.Answers[0].Value)
	assert.Equal(t, "Tech, Art", rendered.Answers[1].Value)
}

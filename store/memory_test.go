package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formworks/form-server/models"
)

func seedForm(t *testing.T, st *Memory, title, slug string) *models.Form {
	t.Helper()
	form := &models.Form{
		Title:  title,
		Slug:   slug,
		Active: true,
		Fields: []models.Field{
			{ID: "q1", Kind: models.KindShortText, Prompt: "Name", Required: true, Position: 0},
		},
	}
	require.NoError(t, st.CreateForm(context.Background(), form))
	return form
}

func TestMemorySlugFirstMatchWins(t *testing.T) {
	st := NewMemory()
	first := seedForm(t, st, "Contact Survey", "contact-survey")
	seedForm(t, st, "Contact Survey", "contact-survey")

	got, err := st.GetFormBySlug(context.Background(), "contact-survey")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = st.GetFormBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReplacePreservesImmutables(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	form := seedForm(t, st, "T", "t")
	require.NoError(t, st.SubmitResponse(ctx, &models.Response{FormID: form.ID}))

	edit := *form
	edit.Title = "Renamed"
	edit.Slug = "hacked"
	edit.ResponseCount = 99
	require.NoError(t, st.ReplaceForm(ctx, &edit))

	got, err := st.GetForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "t", got.Slug, "slug is immutable through edits")
	assert.Equal(t, 1, got.ResponseCount, "counter only moves on submit")
	assert.Equal(t, form.CreatedAt, got.CreatedAt)
}

func TestMemoryResponsesNewestFirst(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	form := seedForm(t, st, "T", "t")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := base.AddDate(0, 0, i)
		st.Now = func() time.Time { return ts }
		require.NoError(t, st.SubmitResponse(ctx, &models.Response{FormID: form.ID}))
	}

	rows, err := st.ListResponses(ctx, form.ID, ResponseFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].SubmittedAt.After(rows[1].SubmittedAt))
	assert.True(t, rows[1].SubmittedAt.After(rows[2].SubmittedAt))

	// date window: [day2, day3)
	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 2)
	window, err := st.ListResponses(ctx, form.ID, ResponseFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, from, window[0].SubmittedAt)

	// pagination
	page, err := st.ListResponses(ctx, form.ID, ResponseFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestMemoryDeleteResponseKeepsCounter(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	form := seedForm(t, st, "T", "t")

	resp := &models.Response{FormID: form.ID}
	require.NoError(t, st.SubmitResponse(ctx, resp))
	require.NoError(t, st.DeleteResponse(ctx, form.ID, resp.ID))

	got, _ := st.GetForm(ctx, form.ID)
	assert.Equal(t, 1, got.ResponseCount, "moderation deletes never decrement")
	n, _ := st.CountResponses(ctx, form.ID, ResponseFilter{})
	assert.Zero(t, n)

	assert.ErrorIs(t, st.DeleteResponse(ctx, form.ID, resp.ID), ErrNotFound)
}

func TestMemorySubmitToMissingForm(t *testing.T) {
	st := NewMemory()
	err := st.SubmitResponse(context.Background(), &models.Response{FormID: 42})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCopiesAreIsolated(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	form := seedForm(t, st, "T", "t")

	got, _ := st.GetForm(ctx, form.ID)
	got.Fields[0].Prompt = "mutated"

	again, _ := st.GetForm(ctx, form.ID)
	assert.Equal(t, "Name", again.Fields[0].Prompt)
}

package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title, want string
	}{
		{"Contact Survey", "contact-survey"},
		{"  Hello,   World!  ", "hello-world"},
		{"Already-Slugged", "already-slugged"},
		{"---", ""},
		{"Q4 2026 / Budget Review", "q4-2026-budget-review"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.title), tc.title)
	}
}

func TestNewFieldSeeding(t *testing.T) {
	f := NewField(models.KindSingleChoice)
	assert.NotEmpty(t, f.ID)
	assert.False(t, f.Required)
	assert.Empty(t, f.Prompt)
	assert.Equal(t, []string{"Option 1"}, f.Options)

	g := NewField(models.KindShortText)
	assert.Nil(t, g.Options)
	assert.NotEqual(t, f.ID, g.ID)
}

func TestOptionDraftOps(t *testing.T) {
	f := NewField(models.KindMultiChoice)
	AddOption(&f)
	assert.Equal(t, []string{"Option 1", "Option 2"}, f.Options)

	require.NoError(t, RemoveOption(&f, 0))
	assert.Equal(t, []string{"Option 2"}, f.Options)

	assert.Error(t, RemoveOption(&f, 0), "last option cannot be removed")
	assert.Error(t, RemoveOption(&f, 5))
}

func TestMoveField(t *testing.T) {
	form := &models.Form{Fields: []models.Field{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}
	require.NoError(t, MoveField(form, 2, 0))
	assert.Equal(t, "c", form.Fields[0].ID)
	assert.Equal(t, "a", form.Fields[1].ID)
	assert.Error(t, MoveField(form, 0, 9))
}

func contactSurveyDraft() *models.Form {
	name := NewField(models.KindShortText)
	name.Prompt = "Name"
	name.Required = true
	interests := NewField(models.KindMultiChoice)
	interests.Prompt = "Interests"
	interests.Options = []string{"Tech", "Art"}
	return &models.Form{
		Title:  "Contact Survey",
		Fields: []models.Field{name, interests},
	}
}

func TestCommitCreate(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}

	form, err := author.Commit(context.Background(), contactSurveyDraft())
	require.NoError(t, err)

	assert.Equal(t, "contact-survey", form.Slug)
	assert.Equal(t, 0, form.ResponseCount)
	assert.True(t, form.Active)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, 0, form.Fields[0].Position)
	assert.Equal(t, 1, form.Fields[1].Position)
	assert.False(t, form.CreatedAt.IsZero())
}

func TestCommitPreconditions(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}
	ctx := context.Background()

	cases := map[string]*models.Form{
		"empty title": {Title: "  ", Fields: []models.Field{{Kind: models.KindShortText, Prompt: "q"}}},
		"no fields":   {Title: "T"},
		"empty prompt": {Title: "T", Fields: []models.Field{
			{Kind: models.KindShortText, Prompt: ""},
		}},
		"choice without options": {Title: "T", Fields: []models.Field{
			{Kind: models.KindSingleChoice, Prompt: "pick"},
		}},
		"unknown kind": {Title: "T", Fields: []models.Field{
			{Kind: "slider", Prompt: "q"},
		}},
	}
	for name, draft := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := author.Commit(ctx, draft)
			require.ErrorIs(t, err, ErrIncompleteForm)
		})
	}

	// all-or-nothing: nothing was persisted
	forms, err := st.ListForms(ctx)
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestCommitStripsStrayOptions(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}

	draft := &models.Form{
		Title: "T",
		Fields: []models.Field{
			{Kind: models.KindShortText, Prompt: "q", Options: []string{"junk"}},
		},
	}
	form, err := author.Commit(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, form.Fields[0].Options)
	assert.NotEmpty(t, form.Fields[0].ID, "missing ids are assigned at commit")
}

func TestCommitIdempotentAndSlugPreserved(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}
	ctx := context.Background()

	form, err := author.Commit(ctx, contactSurveyDraft())
	require.NoError(t, err)

	// unchanged recommit
	again, err := author.Commit(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, form.ID, again.ID)
	assert.Equal(t, form.Slug, again.Slug)
	assert.Equal(t, form.Fields, again.Fields)
	assert.Equal(t, 0, again.ResponseCount)

	// title edit keeps id and slug
	form.Title = "Renamed Survey"
	edited, err := author.Commit(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, form.ID, edited.ID)
	assert.Equal(t, "contact-survey", edited.Slug)
	assert.Equal(t, "Renamed Survey", edited.Title)
}

func TestDeleteCascades(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}
	ctx := context.Background()

	form, err := author.Commit(ctx, contactSurveyDraft())
	require.NoError(t, err)
	require.NoError(t, st.SubmitResponse(ctx, &models.Response{
		FormID: form.ID,
		Answers: []models.Answer{
			{FieldID: form.Fields[0].ID, Value: models.TextAnswer(models.KindShortText, "Ada")},
		},
	}))

	require.NoError(t, author.Delete(ctx, form.ID))

	_, err = st.GetForm(ctx, form.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	n, err := st.CountResponses(ctx, form.ID, store.ResponseFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleActive(t *testing.T) {
	st := store.NewMemory()
	author := Author{Store: st}
	ctx := context.Background()

	form, err := author.Commit(ctx, contactSurveyDraft())
	require.NoError(t, err)

	active, err := author.ToggleActive(ctx, form.ID)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = author.ToggleActive(ctx, form.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = author.ToggleActive(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

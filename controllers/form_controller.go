package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/engine"
	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

// FormController is the authoring surface: commit, list, toggle, delete.
type FormController struct {
	Author engine.Author
	Store  store.Store
}

func NewFormController(st store.Store) *FormController {
	return &FormController{Author: engine.Author{Store: st}, Store: st}
}

type fieldPayload struct {
	ID       string           `json:"id"`
	Kind     models.FieldKind `json:"kind" binding:"required"`
	Prompt   string           `json:"prompt"`
	Required bool             `json:"required"`
	Options  []string         `json:"options"`
}

type formPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Active      *bool          `json:"active"`
	Fields      []fieldPayload `json:"fields"`
}

func (p formPayload) toDraft(id uint) *models.Form {
	draft := &models.Form{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Active:      true,
	}
	if p.Active != nil {
		draft.Active = *p.Active
	}
	for _, f := range p.Fields {
		draft.Fields = append(draft.Fields, models.Field{
			ID:       f.ID,
			Kind:     f.Kind,
			Prompt:   f.Prompt,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return draft
}

func commitError(c *gin.Context, err error) {
	if errors.Is(err, engine.ErrIncompleteForm) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "incomplete_form",
			"message": err.Error(),
		})
		return
	}
	storeError(c, "form.commit", err)
}

// Create commits a brand-new form. POST /api/forms
func (fc *FormController) Create(c *gin.Context) {
	var req formPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}

	form, err := fc.Author.Commit(c.Request.Context(), req.toDraft(0))
	if err != nil {
		commitError(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

// List returns every form, active or not. GET /api/forms
func (fc *FormController) List(c *gin.Context) {
	forms, err := fc.Store.ListForms(c.Request.Context())
	if err != nil {
		storeError(c, "form.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forms": forms})
}

// Get is the author view of one form; inactive forms are visible here.
// GET /api/forms/:id
func (fc *FormController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	form, err := fc.Store.GetForm(c.Request.Context(), id)
	if err != nil {
		storeError(c, "form.get", err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// Update commits an edit to an existing form; slug and id survive even a
// title change. PUT /api/forms/:id
func (fc *FormController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req formPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}

	form, err := fc.Author.Commit(c.Request.Context(), req.toDraft(id))
	if err != nil {
		commitError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// ToggleActive flips publication. PATCH /api/forms/:id/active
func (fc *FormController) ToggleActive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	active, err := fc.Author.ToggleActive(c.Request.Context(), id)
	if err != nil {
		storeError(c, "form.toggle_active", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "active": active})
}

// Delete removes the form and cascades over its responses.
// DELETE /api/forms/:id
func (fc *FormController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := fc.Author.Delete(c.Request.Context(), id); err != nil {
		storeError(c, "form.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type newFieldPayload struct {
	Kind models.FieldKind `json:"kind" binding:"required"`
}

// NewField seeds a draft field for the builder UI. Nothing is persisted
// until the next commit. POST /api/fields
func (fc *FormController) NewField(c *gin.Context) {
	var req newFieldPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}
	if !req.Kind.Known() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_kind"})
		return
	}
	c.JSON(http.StatusOK, engine.NewField(req.Kind))
}

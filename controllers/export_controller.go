package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/engine"
	"github.com/formworks/form-server/store"
)

// ExportController produces the CSV download for a form's responses.
type ExportController struct {
	Store store.Store
}

func NewExportController(st store.Store) *ExportController {
	return &ExportController{Store: st}
}

// Download streams every response for a form as a CSV attachment. The
// transform itself is pure; the only store work is loading the form and
// its responses. GET /api/forms/:id/export
func (ec *ExportController) Download(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	form, err := ec.Store.GetForm(ctx, id)
	if err != nil {
		storeError(c, "export.form", err)
		return
	}
	responses, err := ec.Store.ListResponses(ctx, id, store.ResponseFilter{})
	if err != nil {
		storeError(c, "export.responses", err)
		return
	}

	data := engine.ExportCSV(form, responses)
	filename := fmt.Sprintf("%s-responses.csv", form.Slug)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

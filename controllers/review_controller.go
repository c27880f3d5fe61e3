package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/engine"
	"github.com/formworks/form-server/store"
)

// ReviewController is the operator surface over collected responses.
type ReviewController struct {
	Reviewer engine.Reviewer
	Store    store.Store
}

func NewReviewController(st store.Store) *ReviewController {
	return &ReviewController{Reviewer: engine.Reviewer{Store: st}, Store: st}
}

// List pages a form's responses, newest first, with optional date bounds.
// GET /api/forms/:id/submissions?page=1&limit=10&start_date=2026-08-01&end_date=2026-08-28
func (rc *ReviewController) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	form, err := rc.Store.GetForm(c.Request.Context(), id)
	if err != nil {
		storeError(c, "review.list.form", err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	filter := store.ResponseFilter{Limit: limit, Offset: (page - 1) * limit}
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.From = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// exclusive upper bound one day out, so the end date is inclusive
			end := t.Add(24 * time.Hour)
			filter.To = &end
		}
	}

	rows, total, err := rc.Reviewer.List(c.Request.Context(), form, filter)
	if err != nil {
		storeError(c, "review.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"form_id":     form.ID,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"submissions": rows,
	})
}

// Detail renders one response. GET /api/forms/:id/submissions/:subID
func (rc *ReviewController) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	subID, ok := idParam(c, "subID")
	if !ok {
		return
	}
	form, err := rc.Store.GetForm(c.Request.Context(), id)
	if err != nil {
		storeError(c, "review.detail.form", err)
		return
	}
	resp, err := rc.Store.GetResponse(c.Request.Context(), id, subID)
	if err != nil {
		storeError(c, "review.detail", err)
		return
	}
	c.JSON(http.StatusOK, engine.RenderResponse(form, resp))
}

// Delete removes one response. The form's submission counter is
// deliberately left alone so historical volume stays visible.
// DELETE /api/forms/:id/submissions/:subID
func (rc *ReviewController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	subID, ok := idParam(c, "subID")
	if !ok {
		return
	}
	if err := rc.Store.DeleteResponse(c.Request.Context(), id, subID); err != nil {
		storeError(c, "review.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats reports ground-truth totals for a form. GET /api/forms/:id/stats
func (rc *ReviewController) Stats(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	form, err := rc.Store.GetForm(c.Request.Context(), id)
	if err != nil {
		storeError(c, "review.stats.form", err)
		return
	}
	stats, err := rc.Reviewer.Stats(c.Request.Context(), form)
	if err != nil {
		storeError(c, "review.stats", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form_id": form.ID, "stats": stats})
}

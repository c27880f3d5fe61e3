package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formworks/form-server/blob"
	"github.com/formworks/form-server/engine"
	"github.com/formworks/form-server/fieldtype"
	"github.com/formworks/form-server/models"
	"github.com/formworks/form-server/store"
)

// PublicController is the respondent surface: resolve an active form's
// input surface and accept submissions.
type PublicController struct {
	Renderer engine.Renderer
}

func NewPublicController(st store.Store, bl blob.Storage) *PublicController {
	return &PublicController{Renderer: engine.Renderer{Store: st, Blob: bl}}
}

// GetForm resolves a published form by slug (falling back to id) and
// returns its rendered input surface. GET /api/public/forms/:slug
func (pc *PublicController) GetForm(c *gin.Context) {
	form, err := pc.Renderer.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, engine.ErrFormUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form_unavailable"})
			return
		}
		storeError(c, "public.get_form", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          form.ID,
		"slug":        form.Slug,
		"title":       form.Title,
		"description": form.Description,
		"fields":      engine.RenderForm(form, nil),
	})
}

type answerPayload struct {
	FieldID string   `json:"field_id" binding:"required"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

type submitPayload struct {
	Answers    []answerPayload `json:"answers"`
	ClientMeta string          `json:"client_meta"`
}

// Submit accepts a respondent's draft, as plain JSON or as a multipart
// request carrying a "data" JSON part plus one "file_<fieldID>" part per
// file answer. Validation collects every failure before refusing; a
// rejected draft is echoed back with inline errors so nothing the
// respondent typed is lost. POST /api/public/forms/:slug/submissions
func (pc *PublicController) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	form, err := pc.Renderer.Resolve(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, engine.ErrFormUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form_unavailable"})
			return
		}
		storeError(c, "public.submit.resolve", err)
		return
	}

	var req submitPayload
	multipartReq := strings.Contains(c.GetHeader("Content-Type"), "multipart/form-data")
	if multipartReq {
		data := c.PostForm("data")
		if data == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_data_part"})
			return
		}
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload", "message": err.Error()})
		return
	}

	draft := engine.Draft{}
	for _, a := range req.Answers {
		draft[a.FieldID] = fieldtype.RawValue{Text: a.Text, Choices: a.Choices}
	}

	// Attach file parts to their fields. Opened files are closed after the
	// submit completes either way.
	var open []multipart.File
	defer func() {
		for _, f := range open {
			f.Close()
		}
	}()
	if multipartReq {
		for i := range form.Fields {
			f := &form.Fields[i]
			if f.Kind != models.KindFileUpload {
				continue
			}
			fh, err := c.FormFile("file_" + f.ID)
			if err != nil {
				continue // absent part = unanswered; validation decides
			}
			raw, file, err := fileRawValue(fh)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_file", "message": err.Error()})
				return
			}
			open = append(open, file)
			draft[f.ID] = raw
		}
	}

	clientMeta := req.ClientMeta
	if clientMeta == "" {
		clientMeta = c.Request.UserAgent()
	}

	resp, verrs, err := pc.Renderer.Submit(ctx, form, draft, clientMeta)
	if err != nil {
		storeError(c, "public.submit", err)
		return
	}
	if len(verrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_failed",
			"fields":  verrs,
			"surface": engine.RenderWithErrors(form, draft, verrs),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           resp.ID,
		"submitted_at": resp.SubmittedAt,
	})
}

// fileRawValue builds the raw value for an uploaded part: descriptor from
// the header, content type sniffed from the first 512 bytes (the declared
// header is only a fallback), reader rewound for the blob upload.
func fileRawValue(fh *multipart.FileHeader) (fieldtype.RawValue, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return fieldtype.RawValue{}, nil, err
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return fieldtype.RawValue{}, nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return fieldtype.RawValue{}, nil, err
	}

	mimeType := http.DetectContentType(buf[:n])
	if mimeType == "application/octet-stream" {
		if declared := fh.Header.Get("Content-Type"); declared != "" {
			mimeType = declared
		}
	}
	// DetectContentType appends charset parameters to text types.
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return fieldtype.RawValue{
		File: &models.FileDescriptor{
			Name:     fh.Filename,
			ByteSize: fh.Size,
			MimeType: mimeType,
		},
		Data: file,
	}, file, nil
}

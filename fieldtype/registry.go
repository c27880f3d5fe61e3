// Package fieldtype is the closed dispatch table for field kinds: per-kind
// validation of respondent input, pure rendering of the input surface, and
// the reviewer-side display rendering. It holds no mutable state.
package fieldtype

import (
	"fmt"
	"io"
	"strings"

	"github.com/formworks/form-server/models"
)

// MaxUploadBytes is the hard ceiling for a single file_upload answer.
const MaxUploadBytes = 5 << 20 // 5 MiB

// allowedMimeTypes is the fixed allow-list for file_upload answers: common
// image formats, PDF, plain text and word-processor documents.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type Code string

const (
	CodeMissingRequired     Code = "missing_required"
	CodeUnknownOption       Code = "unknown_option"
	CodeFileTooLarge        Code = "file_too_large"
	CodeUnsupportedFileType Code = "unsupported_file_type"
	CodeUnknownKind         Code = "unknown_kind"
)

// ValidationError is a field-scoped validation failure. It is always
// recovered locally (rendered inline against the offending field), never
// propagated as a generic server error.
type ValidationError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func errMissingRequired() *ValidationError {
	return &ValidationError{Code: CodeMissingRequired, Message: "this field is required"}
}

func errUnknownOption(v string) *ValidationError {
	return &ValidationError{Code: CodeUnknownOption, Message: fmt.Sprintf("%q is not one of the available options", v)}
}

// RawValue is the respondent-supplied input for one field before
// validation. Text carries the single-string kinds and single_choice,
// Choices carries multi_choice, File (plus Data) carries file_upload.
type RawValue struct {
	Text    string
	Choices []string
	File    *models.FileDescriptor
	// Data streams the uploaded bytes to the blob collaborator after
	// validation passes. Validation itself never reads it.
	Data io.Reader
}

// IsEmpty reports whether the respondent left the field unanswered.
func (r RawValue) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.Choices) == 0 && r.File == nil
}

// Validate checks one field's raw input and produces its canonical
// AnswerValue. An unanswered optional field yields (nil, nil): the field is
// simply absent from the persisted answers.
func Validate(field *models.Field, raw RawValue) (*models.AnswerValue, *ValidationError) {
	if raw.IsEmpty() {
		if field.Required {
			return nil, errMissingRequired()
		}
		return nil, nil
	}

	switch field.Kind {
	case models.KindShortText, models.KindLongText, models.KindNumber:
		v := models.TextAnswer(field.Kind, strings.TrimSpace(raw.Text))
		return &v, nil

	case models.KindSingleChoice:
		choice := strings.TrimSpace(raw.Text)
		if !field.HasOption(choice) {
			return nil, errUnknownOption(choice)
		}
		v := models.TextAnswer(field.Kind, choice)
		return &v, nil

	case models.KindMultiChoice:
		// Ordered set semantics: order preserved, duplicates collapsed.
		seen := make(map[string]bool, len(raw.Choices))
		choices := make([]string, 0, len(raw.Choices))
		for _, c := range raw.Choices {
			if !field.HasOption(c) {
				return nil, errUnknownOption(c)
			}
			if seen[c] {
				continue
			}
			seen[c] = true
			choices = append(choices, c)
		}
		if len(choices) == 0 {
			if field.Required {
				return nil, errMissingRequired()
			}
			return nil, nil
		}
		v := models.ChoicesAnswer(choices)
		return &v, nil

	case models.KindFileUpload:
		fd := raw.File
		if fd == nil {
			// Text or choices supplied for a file field; treat as unanswered.
			if field.Required {
				return nil, errMissingRequired()
			}
			return nil, nil
		}
		if fd.ByteSize > MaxUploadBytes {
			return nil, &ValidationError{
				Code:    CodeFileTooLarge,
				Message: fmt.Sprintf("file exceeds the %d MiB limit", MaxUploadBytes>>20),
			}
		}
		if !allowedMimeTypes[fd.MimeType] {
			return nil, &ValidationError{
				Code:    CodeUnsupportedFileType,
				Message: fmt.Sprintf("file type %q is not accepted", fd.MimeType),
			}
		}
		v := models.FileAnswer(fd)
		return &v, nil

	default:
		return nil, &ValidationError{
			Code:    CodeUnknownKind,
			Message: fmt.Sprintf("unsupported field kind %q", field.Kind),
		}
	}
}

// AcceptedMimeTypes lists the file_upload allow-list in a stable order,
// for input-surface descriptors.
func AcceptedMimeTypes() []string {
	out := make([]string, 0, len(allowedMimeTypes))
	for _, mt := range []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
		"application/pdf", "text/plain", "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	} {
		if allowedMimeTypes[mt] {
			out = append(out, mt)
		}
	}
	return out
}

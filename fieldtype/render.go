package fieldtype

import "github.com/formworks/form-server/models"

// InputDescriptor is the abstract input surface for one field: everything a
// client needs to draw the control, seeded with any draft value the
// respondent already entered. Rendering is a pure function of the field and
// the current value.
type InputDescriptor struct {
	FieldID  string              `json:"field_id"`
	Kind     models.FieldKind    `json:"kind"`
	Prompt   string              `json:"prompt"`
	Required bool                `json:"required"`
	Control  string              `json:"control"`
	Options  []string            `json:"options,omitempty"`
	Value    *models.AnswerValue `json:"value,omitempty"`
	// file_upload constraints, advertised so clients can reject early.
	MaxBytes int64    `json:"max_bytes,omitempty"`
	Accept   []string `json:"accept,omitempty"`
	// Error carries the inline validation failure when a draft is
	// re-rendered after a rejected submit.
	Error *ValidationError `json:"error,omitempty"`
}

var controls = map[models.FieldKind]string{
	models.KindShortText:    "text",
	models.KindLongText:     "textarea",
	models.KindNumber:       "number",
	models.KindSingleChoice: "radio",
	models.KindMultiChoice:  "checkbox",
	models.KindFileUpload:   "file",
}

// Render produces the input descriptor for one field, seeding it with the
// respondent's current value so partial input survives a validation error.
func Render(field *models.Field, current *models.AnswerValue) InputDescriptor {
	d := InputDescriptor{
		FieldID:  field.ID,
		Kind:     field.Kind,
		Prompt:   field.Prompt,
		Required: field.Required,
		Control:  controls[field.Kind],
		Value:    current,
	}
	if field.Kind.HasOptions() {
		d.Options = append([]string(nil), field.Options...)
	}
	if field.Kind == models.KindFileUpload {
		d.MaxBytes = MaxUploadBytes
		d.Accept = AcceptedMimeTypes()
	}
	return d
}

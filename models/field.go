package models

// Field is one question on a form. IDs are opaque tokens assigned when the
// author adds the question to a draft and survive every later edit, so
// persisted answers stay attached to the right question.
type Field struct {
	ID       string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	FormID   uint      `gorm:"column:form_id;index;not null" json:"form_id"`
	Kind     FieldKind `gorm:"column:kind;size:20;not null" json:"kind"`
	Prompt   string    `gorm:"column:prompt;type:text" json:"prompt"`
	Required bool      `gorm:"column:required;default:false" json:"required"`
	Position int       `gorm:"column:position;default:0" json:"position"`
	// Options is only meaningful for single_choice and multi_choice; the
	// author commit strips it for every other kind.
	Options []string `gorm:"column:options;serializer:json;type:text" json:"options,omitempty"`
}

func (Field) TableName() string {
	return "form_fields"
}

// HasOption reports whether v is one of the field's authored options.
func (f *Field) HasOption(v string) bool {
	for _, o := range f.Options {
		if o == v {
			return true
		}
	}
	return false
}

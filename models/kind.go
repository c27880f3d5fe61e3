package models

// FieldKind is the closed set of question types a form can carry. Adding a
// kind means touching the fieldtype registry as well; there is no dynamic
// registration.
type FieldKind string

const (
	KindShortText    FieldKind = "short_text"
	KindLongText     FieldKind = "long_text"
	KindNumber       FieldKind = "number"
	KindSingleChoice FieldKind = "single_choice"
	KindMultiChoice  FieldKind = "multi_choice"
	KindFileUpload   FieldKind = "file_upload"
)

var allKinds = []FieldKind{
	KindShortText,
	KindLongText,
	KindNumber,
	KindSingleChoice,
	KindMultiChoice,
	KindFileUpload,
}

// Kinds returns every supported field kind in declaration order.
func Kinds() []FieldKind {
	out := make([]FieldKind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Known reports whether k is one of the supported kinds.
func (k FieldKind) Known() bool {
	for _, kk := range allKinds {
		if k == kk {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this kind carry an option list.
func (k FieldKind) HasOptions() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

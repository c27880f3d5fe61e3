package models

// AnswerValue is the tagged union of everything a respondent can supply.
// Exactly one of the payload members is populated, selected by Kind, which
// always matches the owning field's kind:
//
//	short_text, long_text, number, single_choice -> Text
//	multi_choice                                 -> Choices
//	file_upload                                  -> File
//
// Numbers are deliberately carried as strings; numeric validity is a
// presentation concern, not a storage one.
type AnswerValue struct {
	Kind    FieldKind       `json:"kind"`
	Text    string          `json:"text,omitempty"`
	Choices []string        `json:"choices,omitempty"`
	File    *FileDescriptor `json:"file,omitempty"`
}

// FileDescriptor is the stored stand-in for an uploaded file. The bytes
// live with the blob storage collaborator; only the reference travels with
// the response.
type FileDescriptor struct {
	Name     string `json:"name"`
	ByteSize int64  `json:"byte_size"`
	MimeType string `json:"mime_type"`
	Ref      string `json:"ref,omitempty"`
}

// TextAnswer builds a value for the single-string kinds.
func TextAnswer(kind FieldKind, text string) AnswerValue {
	return AnswerValue{Kind: kind, Text: text}
}

// ChoicesAnswer builds a multi_choice value.
func ChoicesAnswer(choices []string) AnswerValue {
	return AnswerValue{Kind: KindMultiChoice, Choices: choices}
}

// FileAnswer builds a file_upload value.
func FileAnswer(fd *FileDescriptor) AnswerValue {
	return AnswerValue{Kind: KindFileUpload, File: fd}
}

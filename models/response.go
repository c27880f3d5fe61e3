package models

import "time"

// Response is one validated, persisted submission to a form.
type Response struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FormID      uint      `gorm:"column:form_id;index;not null" json:"form_id"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime" json:"submitted_at"`
	// ClientMeta is an opaque diagnostic string (submitting user agent and
	// the like). Never validated, never required.
	ClientMeta string `gorm:"column:client_meta;type:text" json:"client_meta,omitempty"`

	Answers []Answer `gorm:"foreignKey:ResponseID" json:"answers"`
}

func (Response) TableName() string {
	return "responses"
}

// AnswerFor returns the stored answer for a field id, if the respondent
// answered it.
func (r *Response) AnswerFor(fieldID string) (*Answer, bool) {
	for i := range r.Answers {
		if r.Answers[i].FieldID == fieldID {
			return &r.Answers[i], true
		}
	}
	return nil, false
}

// Answer is one field's validated value within a response. The value keeps
// its kind tag so it can be rendered even after the author deletes the
// field it belongs to.
type Answer struct {
	ID         uint        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ResponseID uint        `gorm:"column:response_id;index;not null" json:"response_id"`
	FieldID    string      `gorm:"column:field_id;size:36;index;not null" json:"field_id"`
	Value      AnswerValue `gorm:"column:value;serializer:json;type:text" json:"value"`
}

func (Answer) TableName() string {
	return "response_answers"
}

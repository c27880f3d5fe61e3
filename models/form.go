package models

import "time"

type Form struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Slug        string    `gorm:"column:slug;size:160;index" json:"slug"`
	Active      bool      `gorm:"column:active;default:true" json:"active"`
	// ResponseCount is an append-only submission counter maintained by an
	// atomic column increment on submit. Moderation deletes do not decrement
	// it; use the response listing for a ground-truth count.
	ResponseCount int       `gorm:"column:response_count;default:0" json:"response_count"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Fields []Field `gorm:"foreignKey:FormID" json:"fields"`
}

func (Form) TableName() string {
	return "forms"
}

// FieldByID looks a field up on the current schema. The second return is
// false for answers whose field has since been deleted by the author.
func (f *Form) FieldByID(id string) (*Field, bool) {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

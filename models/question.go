package models

// Question types. Choice-like types carry Options, the rest are free text
// or a temporal value.
const (
	QuestionTypeShort          = "short"
	QuestionTypeLong           = "long"
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeMultipleUnique = "multiple_unique"
	QuestionTypeDropdown       = "dropdown"
	QuestionTypeDate           = "date"
	QuestionTypeDatetime       = "datetime"
)

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeShort, QuestionTypeLong, QuestionTypeMultipleChoice,
		QuestionTypeMultipleUnique, QuestionTypeDropdown,
		QuestionTypeDate, QuestionTypeDatetime:
		return true
	}
	return false
}

// HasOptions reports whether the type renders a fixed option list.
func HasOptions(t string) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeMultipleUnique, QuestionTypeDropdown:
		return true
	}
	return false
}

type Question struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FormID     uint   `gorm:"column:form_id;not null;index;uniqueIndex:idx_questions_form_order" json:"formId"`
	Form       Form   `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Order      int    `gorm:"column:sort_order;uniqueIndex:idx_questions_form_order" json:"order"`
	Type       string `gorm:"column:type;size:32;not null" json:"type"`
	Text       string `gorm:"column:text;type:text;not null" json:"text"`
	IsRequired bool   `gorm:"column:is_required;default:false" json:"isRequired"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}

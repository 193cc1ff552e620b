package models

// Answer stores the submitted value for one question. Choice answers store
// the selected option's text, one row per selected option.
type Answer struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubmissionID uint       `gorm:"column:submission_id;not null;index" json:"submissionId"`
	Submission   Submission `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionID   uint       `gorm:"column:question_id;not null;index" json:"questionId"`
	Text         string     `gorm:"column:text;type:text" json:"text"`
}

func (Answer) TableName() string {
	return "answers"
}

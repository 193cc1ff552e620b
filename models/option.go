package models

type Option struct {
	ID         uint     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	QuestionID uint     `gorm:"column:question_id;not null;index" json:"questionId"`
	Question   Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Text       string   `gorm:"column:text;type:text;not null" json:"text"`
}

func (Option) TableName() string {
	return "options"
}

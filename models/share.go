package models

// Share types mirror the platform's sharing constants; the gap between
// group and link is intentional.
const (
	ShareTypeUser  = 0
	ShareTypeGroup = 1
	ShareTypeLink  = 3
)

type Share struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FormID    uint   `gorm:"column:form_id;not null;index" json:"formId"`
	Form      Form   `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	ShareType int    `gorm:"column:share_type;not null" json:"shareType"`
	ShareWith string `gorm:"column:share_with;size:256;not null" json:"shareWith"`

	// Resolved against the directory at read time, never persisted.
	DisplayName string `gorm:"-" json:"displayName"`
}

func (Share) TableName() string {
	return "shares"
}

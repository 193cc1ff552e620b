package models

// Submission records one filled-out form. UserID is the submitter's user id,
// or a synthetic "anon-user-<uuid>" when the form is anonymous or the
// submitter is not logged in.
//
// OnceKey backs the submit-once guarantee: it equals UserID when the form is
// submit-once and the submitter is identified, otherwise a fresh uuid. The
// unique index on (form_id, once_key) makes the store the authority on
// duplicate submissions; the handler's pre-check is only advisory.
type Submission struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FormID    uint   `gorm:"column:form_id;not null;index;uniqueIndex:idx_submissions_once" json:"formId"`
	Form      Form   `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    string `gorm:"column:user_id;size:64;not null" json:"userId"`
	OnceKey   string `gorm:"column:once_key;size:64;not null;uniqueIndex:idx_submissions_once" json:"-"`
	Submitted int64  `gorm:"column:submitted" json:"submitted"`

	Answers []Answer `gorm:"foreignKey:SubmissionID" json:"answers"`
}

func (Submission) TableName() string {
	return "submissions"
}

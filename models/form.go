package models

import "encoding/json"

// FormAccess holds the global access flags stored in access_json.
type FormAccess struct {
	PermitAllUsers bool `json:"permitAllUsers"`
	ShowToAllUsers bool `json:"showToAllUsers"`
}

type Form struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Hash        string `gorm:"column:hash;size:16;uniqueIndex;not null" json:"hash"`
	Title       string `gorm:"column:title;size:255" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	OwnerID     string `gorm:"column:owner_id;size:64;not null;index" json:"ownerId"`
	AccessJSON  string `gorm:"column:access_json;type:text" json:"-"`
	Created     int64  `gorm:"column:created" json:"created"`
	Expires     int64  `gorm:"column:expires;default:0" json:"expires"`
	IsAnonymous bool   `gorm:"column:is_anonymous;default:false" json:"isAnonymous"`
	SubmitOnce  bool   `gorm:"column:submit_once;default:true" json:"submitOnce"`

	Questions   []Question   `gorm:"foreignKey:FormID" json:"-"`
	Shares      []Share      `gorm:"foreignKey:FormID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:FormID" json:"-"`
}

func (Form) TableName() string {
	return "forms"
}

// Access decodes access_json. A missing or broken payload falls back to
// everything-off, which is also the new-form default.
func (f *Form) Access() FormAccess {
	var a FormAccess
	if f.AccessJSON != "" {
		_ = json.Unmarshal([]byte(f.AccessJSON), &a)
	}
	return a
}

func (f *Form) SetAccess(a FormAccess) {
	b, _ := json.Marshal(a)
	f.AccessJSON = string(b)
}

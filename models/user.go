package models

import "time"

// User is the local account table behind password login. Usernames are the
// identity every other table references (owner_id, share_with, user_id).
type User struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"size:128" json:"displayName"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

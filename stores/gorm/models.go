package gorm

import (
	"time"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
)

// UserModel is the GORM model for users. Password and GoogleID are
// nullable: local-only accounts have no google_id, Google-first accounts
// have no password.
type UserModel struct {
	ID           string    `gorm:"primaryKey;size:64"`
	FullName     string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash *string   `gorm:"column:password;size:128"`
	GoogleID     *string   `gorm:"size:64;uniqueIndex"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToUser() *skroll.User {
	user := &skroll.User{
		ID:        m.ID,
		FullName:  m.FullName,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PasswordHash != nil {
		user.PasswordHash = *m.PasswordHash
	}
	if m.GoogleID != nil {
		user.GoogleID = *m.GoogleID
	}
	return user
}

func UserToModel(u *skroll.User) *UserModel {
	model := &UserModel{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.PasswordHash != "" {
		model.PasswordHash = &u.PasswordHash
	}
	if u.GoogleID != "" {
		model.GoogleID = &u.GoogleID
	}
	return model
}

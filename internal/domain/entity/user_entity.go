package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the credential-store aggregate. Password holds a bcrypt hash and is
// never serialized; the reset token fields are set and cleared together.
type User struct {
	ID                  string     `gorm:"primaryKey;size:36" json:"id"`
	Name                string     `gorm:"size:100;not null" json:"name"`
	Email               string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role                string     `gorm:"size:20;not null;default:user" json:"role"`
	Password            string     `gorm:"size:100;not null" json:"-"`
	ResetPasswordToken  *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// SetResetToken stores the hashed reset token with its expiry.
func (u *User) SetResetToken(hash string, expire time.Time) {
	u.ResetPasswordToken = &hash
	u.ResetPasswordExpire = &expire
}

func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
}

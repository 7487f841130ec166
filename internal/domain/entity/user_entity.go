package entity

import (
	"time"
)

// User is the aggregate root of the account domain.
// PasswordHash holds a bcrypt hash and must never leave the service layer;
// callers receive a UserView instead.
//
// Version is bumped on every successful update and guards concurrent
// profile writes.
type User struct {
	ID           string
	Fullname     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	Profile      Profile
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is owned by User and only changed through profile updates.
type Profile struct {
	Bio                string
	Skills             []string
	ResumeURL          string
	ResumeOriginalName string
	ProfilePhotoURL    string
}

// UserView is the sanitized projection returned to callers.
type UserView struct {
	ID          string      `json:"_id"`
	Fullname    string      `json:"fullname"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	Role        Role        `json:"role"`
	Profile     ProfileView `json:"profile"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type ProfileView struct {
	Bio                string   `json:"bio,omitempty"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume,omitempty"`
	ResumeOriginalName string   `json:"resumeOriginalName,omitempty"`
	ProfilePhoto       string   `json:"profilePhoto,omitempty"`
}

// View strips credentials from u.
func (u *User) View() UserView {
	skills := make([]string, len(u.Profile.Skills))
	copy(skills, u.Profile.Skills)
	return UserView{
		ID:          u.ID,
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Profile: ProfileView{
			Bio:                u.Profile.Bio,
			Skills:             skills,
			Resume:             u.Profile.ResumeURL,
			ResumeOriginalName: u.Profile.ResumeOriginalName,
			ProfilePhoto:       u.Profile.ProfilePhotoURL,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

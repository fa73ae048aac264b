package user

import "errors"

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already exists")
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	ProfilePic string `json:"profile_pic,omitempty"`
	Role       string `json:"role"`
	CreatedAt  int64  `json:"created_at,omitempty"`

	// Never serialized; only the store touches it.
	PasswordHash string `json:"-"`
}

// Public is the profile shape returned to other users (sidebar, rosters).
type Public struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic,omitempty"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, FullName: u.FullName, ProfilePic: u.ProfilePic}
}

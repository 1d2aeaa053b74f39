package models

// Role values for User.Role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User is an authenticated identity. A user becomes part of a trip by
// claiming one of its participant rows.
type User struct {
	Base
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `gorm:"not null" json:"-"`
	DisplayName string `json:"display_name"`
	Role        string `gorm:"not null;default:'member'" json:"role"`
}

// IsAdmin reports whether the user holds the administrator capability.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package response

import (
	"accounts/internal/core/domain/user"
	"time"
)

// User is the public view of an account, it never carries the password
// hash or the password reset fields.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = du.ID.String()
	u.Email = string(du.Email)
	u.FullName = du.FullName
	u.Phone = du.Phone
	u.CreatedAt = du.CreatedAt
}

func NewUser(du user.User) User {
	u := User{}
	u.FromDomainUser(du)
	return u
}

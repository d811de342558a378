package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	Base
	Username    string     `db:"username"`
	Email       string     `db:"email"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	Role        UserRole   `db:"role"`
	Bio         *string    `db:"bio"`
	IsSuperuser bool       `db:"is_superuser"`
	LastLogin   *time.Time `db:"last_login"`
}

// Fingerprint hashes the account state a confirmation code is bound to.
// Any change to these fields, including a new login, yields a different value.
func (u *User) Fingerprint() string {
	lastLogin := ""
	if u.LastLogin != nil {
		lastLogin = strconv.FormatInt(u.LastLogin.UnixNano(), 10)
	}

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%t|%s|%d",
		u.ID, u.Username, u.Email, u.Role, u.IsSuperuser, lastLogin, u.UpdatedAt.UnixNano())
	return hex.EncodeToString(h.Sum(nil))
}

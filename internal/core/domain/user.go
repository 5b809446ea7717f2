package domain

import (
	"strings"
	"unicode/utf8"
)

// Field limits for directory records.
const (
	MaxUsernameLength = 128
	MaxRealNameLength = 256
	MaxEmailLength    = 320
)

// User is one directory record.
//
// CreatedBy is the identity of the session that created the record and is
// never changed afterwards. Usernames are not unique.
type User struct {
	Username  string `json:"username" yaml:"username"`
	RealName  string `json:"real_name" yaml:"real_name"`
	Email     string `json:"email" yaml:"email"`
	CreatedBy string `json:"created_by" yaml:"created_by"`
}

// UserFields are the caller-supplied fields of a new record.
type UserFields struct {
	Username string `json:"username"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
}

// UserPatch is a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	RealName *string `json:"real_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// NewUser builds the record created by identity from fields.
func NewUser(identity string, fields UserFields) User {
	return User{
		Username:  fields.Username,
		RealName:  fields.RealName,
		Email:     fields.Email,
		CreatedBy: identity,
	}
}

// IsOwnedBy reports whether identity created the record.
func (u User) IsOwnedBy(identity string) bool {
	return u.CreatedBy == identity
}

// Apply returns a copy of u with the patch applied. CreatedBy is preserved.
func (u User) Apply(p UserPatch) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.RealName != nil {
		u.RealName = *p.RealName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.RealName == nil && p.Email == nil
}

// Validate checks field lengths and encoding.
// Empty values are accepted.
func (f UserFields) Validate() error {
	var violations []string
	check := func(name, v string, limit int) {
		if !utf8.ValidString(v) {
			violations = append(violations, name+" is not valid UTF-8")
		} else if len(v) > limit {
			violations = append(violations, name+" is too long")
		}
	}
	check("username", f.Username, MaxUsernameLength)
	check("real_name", f.RealName, MaxRealNameLength)
	check("email", f.Email, MaxEmailLength)

	if len(violations) > 0 {
		return ErrUserValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Validate checks the fields the patch sets.
func (p UserPatch) Validate() error {
	var f UserFields
	if p.Username != nil {
		f.Username = *p.Username
	}
	if p.RealName != nil {
		f.RealName = *p.RealName
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	return f.Validate()
}

// CloneUsers returns an independent copy of users.
func CloneUsers(users []User) []User {
	if users == nil {
		return []User{}
	}
	out := make([]User, len(users))
	copy(out, users)
	return out
}

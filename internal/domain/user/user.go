// Package user holds the account aggregate and the refresh token ledger rows.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/davomat-inc/davomat/internal/shared/authorization"
)

// Status is the account lifecycle state.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusBlocked Status = "BLOCKED"
	StatusInvited Status = "INVITED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusInvited:
		return true
	}
	return false
}

// User is the account aggregate. The token version invalidates every access
// token issued before it was bumped; it only ever grows.
type User struct {
	id                 string
	phone              string
	passwordHash       *string
	role               authorization.UserRole
	status             Status
	tokenVersion       int
	mustChangePassword bool
	createdAt          time.Time
	updatedAt          time.Time
}

// NewUser creates an account that has not been persisted yet.
func NewUser(id, phone string, role authorization.UserRole, status Status) (*User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	now := time.Now().UTC()
	return &User{
		id:        id,
		phone:     phone,
		role:      role,
		status:    status,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// UserData carries persisted state into ReconstructUser.
type UserData struct {
	ID                 string
	Phone              string
	PasswordHash       *string
	Role               authorization.UserRole
	Status             Status
	TokenVersion       int
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(d UserData) (*User, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	if !d.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q for user %s", d.Role, d.ID)
	}
	if !d.Status.IsValid() {
		return nil, fmt.Errorf("invalid status %q for user %s", d.Status, d.ID)
	}
	if d.TokenVersion < 0 {
		return nil, fmt.Errorf("negative token version for user %s", d.ID)
	}
	return &User{
		id:                 d.ID,
		phone:              d.Phone,
		passwordHash:       d.PasswordHash,
		role:               d.Role,
		status:             d.Status,
		tokenVersion:       d.TokenVersion,
		mustChangePassword: d.MustChangePassword,
		createdAt:          d.CreatedAt,
		updatedAt:          d.UpdatedAt,
	}, nil
}

func (u *User) ID() string                   { return u.id }
func (u *User) Phone() string                { return u.phone }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) Status() Status               { return u.status }
func (u *User) TokenVersion() int            { return u.tokenVersion }
func (u *User) MustChangePassword() bool     { return u.mustChangePassword }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

// PasswordHash returns the stored hash, or "" when none is set.
func (u *User) PasswordHash() string {
	if u.passwordHash == nil {
		return ""
	}
	return *u.passwordHash
}

func (u *User) HasPassword() bool {
	return u.passwordHash != nil && *u.passwordHash != ""
}

func (u *User) IsActive() bool {
	return u.status == StatusActive
}

// SetPasswordHash stores an initial hash without touching the token version.
func (u *User) SetPasswordHash(hash string, mustChange bool) {
	u.passwordHash = &hash
	u.mustChangePassword = mustChange
	u.updatedAt = time.Now().UTC()
}

// ChangePassword replaces the hash, clears the must-change flag and bumps the
// token version so that outstanding access tokens stop verifying.
func (u *User) ChangePassword(hash string) {
	u.passwordHash = &hash
	u.mustChangePassword = false
	u.BumpTokenVersion()
}

// BumpTokenVersion invalidates every access token issued so far.
func (u *User) BumpTokenVersion() {
	u.tokenVersion++
	u.updatedAt = time.Now().UTC()
}

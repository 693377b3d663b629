// Package entitlement resolves what a caller may do right now. The role is
// always read from the users table; a role embedded in a bearer token is
// never trusted.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"readverse/pkg/models"
)

type Role string

const (
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RoleVIP    Role = "vip"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

// Unlimited reports whether the role reads every chapter without quota or ads.
func (r Role) Unlimited() bool {
	return r == RoleAdmin || r == RoleAuthor || r == RoleVIP
}

// ParseRole accepts the roles that can be stored on a user record.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleVIP, RoleAuthor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

var ErrUserNotFound = errors.New("user not found")

type Entitlement struct {
	UserID   string     `json:"user_id,omitempty"`
	Role     Role       `json:"role"`
	VIPUntil *time.Time `json:"vip_until,omitempty"`
}

func (e *Entitlement) IsGuest() bool {
	return e.Role == RoleGuest
}

func (e *Entitlement) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// UserStore is the slice of the user collaborator the engine consumes.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SetUserRole(ctx context.Context, userID string, role Role, vipUntil *time.Time) error
	CreateAuthorProfile(ctx context.Context, userID, penName string) error
}

type Resolver struct {
	users UserStore
	now   func() time.Time
}

func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users, now: time.Now}
}

// WithClock replaces the time source used for VIP expiry checks.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ResolveRole returns the caller's current entitlement. An empty userID, an
// unknown user or a deactivated account resolves to guest.
func (r *Resolver) ResolveRole(ctx context.Context, userID string) (*Entitlement, error) {
	if userID == "" {
		return &Entitlement{Role: RoleGuest}, nil
	}

	user, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &Entitlement{Role: RoleGuest}, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return &Entitlement{Role: RoleGuest}, nil
	}

	role, ok := ParseRole(string(user.Role))
	if !ok {
		role = RoleUser
	}
	if role == RoleVIP && (user.VIPUntil == nil || !user.VIPUntil.After(r.now())) {
		role = RoleUser
	}

	return &Entitlement{
		UserID:   user.ID,
		Role:     role,
		VIPUntil: user.VIPUntil,
	}, nil
}

// SetRole assigns a role directly. vipUntil is only kept for the vip role.
func (r *Resolver) SetRole(ctx context.Context, userID string, role Role, vipUntil *time.Time) error {
	if _, ok := ParseRole(string(role)); !ok {
		return fmt.Errorf("invalid role %q", role)
	}
	if role != RoleVIP {
		vipUntil = nil
	}
	return r.users.SetUserRole(ctx, userID, role, vipUntil)
}

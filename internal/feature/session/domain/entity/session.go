// Package entity defines the navigation session: who the user is, which role
// they act in and which marketplace category they are browsing.
package entity

import (
	"context"
	"fmt"

	catalog "agrimarket_backend/internal/feature/catalog/domain/entity"
)

// Role is the side of the marketplace a user acts on.
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// ParseRole returns the Role named by s, or false if s is not a role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleSeller, RoleBuyer:
		return r, true
	}
	return "", false
}

// Stage is a position in the strictly ordered navigation flow.
type Stage int

const (
	StageUnauthenticated Stage = iota
	StageRoleUnset
	StageCategoryUnset
	StageReady
)

// String returns the wire name of the stage.
func (s Stage) String() string {
	switch s {
	case StageUnauthenticated:
		return "unauthenticated"
	case StageRoleUnset:
		return "role_unset"
	case StageCategoryUnset:
		return "category_unset"
	case StageReady:
		return "ready"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Session is the client-held navigation state. It is rebuilt from the session
// token on every request, so a missing field always sends the user back to the
// view that produces it.
type Session struct {
	UserID   string
	Username string
	Email    string
	Role     Role
	Category catalog.Category
}

// Stage derives the navigation stage from the fields that are present.
// A nil session is unauthenticated.
func (s *Session) Stage() Stage {
	switch {
	case s == nil || s.UserID == "" || s.Email == "":
		return StageUnauthenticated
	case s.Role == "":
		return StageRoleUnset
	case s.Category == "":
		return StageCategoryUnset
	default:
		return StageReady
	}
}

// Next returns the route of the view the user should be on for the current stage.
func (s *Session) Next() string {
	switch st := s.Stage(); st {
	case StageReady:
		return DashboardRoute(s.Role)
	default:
		return stageRoutes[st]
	}
}

// Require is the single precondition guard used by every stage-gated view.
// It returns nil when the session has reached want, and otherwise a
// *StageError pointing at the first unmet stage.
func (s *Session) Require(want Stage) error {
	have := s.Stage()
	if have >= want {
		return nil
	}
	return &StageError{Have: have, Want: want}
}

var stageRoutes = map[Stage]string{
	StageUnauthenticated: "/login",
	StageRoleUnset:       "/role-selection",
	StageCategoryUnset:   "/category-selection",
}

// DashboardRoute returns the dashboard view for a role.
func DashboardRoute(r Role) string {
	if r == RoleSeller {
		return "/seller-dashboard"
	}
	return "/buyer-dashboard"
}

// StageError reports a request made before the session reached the required stage.
type StageError struct {
	Have Stage
	Want Stage
}

func (e *StageError) Error() string {
	return fmt.Sprintf("session is %s, %s required", e.Have, e.Want)
}

// Redirect is the route of the view that produces the first missing field.
func (e *StageError) Redirect() string {
	return stageRoutes[e.Have]
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, or nil if there is none.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

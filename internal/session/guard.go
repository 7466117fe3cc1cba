// Package session holds the authenticated principal and gates access to
// role-restricted views.
package session

import (
	"regexp"
	"sync"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/observability"
)

// State is the guard's position in the anonymous -> authenticating ->
// authenticated cycle.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Decision is the outcome of a guard check for a protected view.
type Decision int

const (
	// Deny redirects to the public entry point.
	Deny Decision = iota
	// Defer means a login/register call is in flight; the caller should wait
	// rather than prematurely redirect.
	Defer
	// Allow renders the protected view.
	Allow
)

// Guard is the process-wide session holder. Zero value is anonymous.
type Guard struct {
	mu    sync.Mutex
	state State
	user  models.User
}

func NewGuard() *Guard { return &Guard{} }

// BeginAuth marks a login or registration call in flight.
func (g *Guard) BeginAuth() {
	g.setState(StateAuthenticating, models.User{})
}

// CompleteAuth installs the authenticated principal.
func (g *Guard) CompleteAuth(user models.User) {
	g.setState(StateAuthenticated, user)
}

// FailAuth returns to anonymous after a failed credential exchange.
func (g *Guard) FailAuth() {
	g.setState(StateAnonymous, models.User{})
}

// Invalidate drops the session. Called on logout and on any authorization
// failure from a credentialed call.
func (g *Guard) Invalidate() {
	g.setState(StateAnonymous, models.User{})
}

func (g *Guard) setState(s State, user models.User) {
	g.mu.Lock()
	g.state = s
	g.user = user
	g.mu.Unlock()
	observability.IncrementSessionTransition(s.String())
}

// User returns a copy of the principal and whether one is present.
func (g *Guard) User() (models.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.user, g.state == StateAuthenticated
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Check gates the finance views: only an authenticated finance user may
// enter; an in-flight credential exchange defers instead of redirecting.
func (g *Guard) Check() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch g.state {
	case StateAuthenticating:
		return Defer
	case StateAuthenticated:
		if g.user.Role == domain.RoleFinance {
			return Allow
		}
	}
	return Deny
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// ValidateCredentials performs the client-side checks that must pass before
// any login or register request is dispatched.
func ValidateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return &domain.ValidationError{Field: "email", Reason: "invalid email format"}
	}
	if len(password) < minPasswordLength {
		return &domain.ValidationError{Field: "password", Reason: "password must be at least 6 characters long"}
	}
	return nil
}

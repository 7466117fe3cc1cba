package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

func financeUser() models.User {
	return models.User{ID: "u1", Username: "reviewer", Email: "r@example.com", Role: domain.RoleFinance}
}

func TestGuardStartsAnonymous(t *testing.T) {
	g := NewGuard()
	require.Equal(t, StateAnonymous, g.State())
	require.Equal(t, Deny, g.Check())
	_, ok := g.User()
	require.False(t, ok)
}

func TestGuardDefersWhileAuthenticating(t *testing.T) {
	g := NewGuard()
	g.BeginAuth()
	require.Equal(t, Defer, g.Check(), "an in-flight login must not redirect")
}

func TestGuardAllowsFinanceOnly(t *testing.T) {
	cases := []struct {
		role domain.Role
		want Decision
	}{
		{role: domain.RoleFinance, want: Allow},
		{role: domain.RoleAdmin, want: Deny},
		{role: domain.RoleUser, want: Deny},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			g := NewGuard()
			g.BeginAuth()
			user := financeUser()
			user.Role = tc.role
			g.CompleteAuth(user)
			require.Equal(t, tc.want, g.Check())
		})
	}
}

func TestGuardFailAuthReturnsToAnonymous(t *testing.T) {
	g := NewGuard()
	g.BeginAuth()
	g.FailAuth()
	require.Equal(t, StateAnonymous, g.State())
	require.Equal(t, Deny, g.Check())
}

func TestGuardInvalidateDropsPrincipal(t *testing.T) {
	g := NewGuard()
	g.BeginAuth()
	g.CompleteAuth(financeUser())
	require.Equal(t, Allow, g.Check())

	g.Invalidate()
	require.Equal(t, Deny, g.Check())
	_, ok := g.User()
	require.False(t, ok)
}

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{name: "valid", email: "staff@example.com", password: "secret1"},
		{name: "bad_email", email: "bad", password: "longenough", wantErr: "email"},
		{name: "missing_domain", email: "bad@", password: "longenough", wantErr: "email"},
		{name: "spaces", email: "a b@x.com", password: "longenough", wantErr: "email"},
		{name: "short_password", email: "staff@example.com", password: "123", wantErr: "password"},
		{name: "both_invalid", email: "bad", password: "123", wantErr: "email"},
		{name: "exactly_six", email: "staff@example.com", password: "123456"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.email, tc.password)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, domain.IsValidation(err))
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.wantErr, ve.Field)
		})
	}
}

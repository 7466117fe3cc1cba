package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

func newTestStub(t *testing.T, rps int) (*Stub, *httptest.Server) {
	t.Helper()
	stub := NewStub(Config{
		JWTSecret:        "gateway-test-secret-0123456789abcdef",
		SessionTTL:       time.Hour,
		AuthRateLimitRPS: rps,
	}, zap.NewNop())
	server := httptest.NewServer(stub.Routes())
	t.Cleanup(server.Close)
	return stub, server
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	_, server := newTestStub(t, 1)

	login := func() *http.Response {
		resp, err := http.Post(server.URL+"/auth/login", "application/json",
			strings.NewReader(`{"email":"a@x.com","password":"whatever"}`))
		require.NoError(t, err)
		return resp
	}

	first := login()
	first.Body.Close()

	second := login()
	defer second.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(second.Body).Decode(&body))
	require.Equal(t, "too many requests", body.Message)
}

func TestTamperedSessionCookieRejected(t *testing.T) {
	_, server := newTestStub(t, 1000)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/admin/users", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "not.a.token"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestErrorBodiesCarryMessageField(t *testing.T) {
	_, server := newTestStub(t, 1000)

	resp, err := http.Get(server.URL + "/transactions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Message)
}

func TestSeededTransactionDefaults(t *testing.T) {
	stub, _ := newTestStub(t, 1000)

	tx := stub.SeedTransaction(models.Transaction{TransactionUserID: "TX1"})
	require.NotEmpty(t, tx.ID)
	require.Equal(t, domain.StatusPending, tx.Status, "submissions always start pending")
	require.False(t, tx.CreatedAt.IsZero())
}

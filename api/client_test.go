package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/penthrey/penthrey-go/api"
	"github.com/penthrey/penthrey-go/credentials"
)

const (
	testUserID    = "user-1"
	testUserEmail = "john.doe@example.com"
	testRefresh   = "8f14e45fceea167a5a36dedd4bea2543"
	testSecret    = "test-signing-secret"
)

// testFixture holds a fake backend, a credential store, and a client wired
// to both.
type testFixture struct {
	server       *httptest.Server
	store        credentials.Store
	client       *api.Client
	expiredCalls atomic.Int32
}

func newTestFixture(t *testing.T, handler http.Handler) *testFixture {
	t.Helper()

	f := &testFixture{
		server: httptest.NewServer(handler),
		store:  credentials.NewMemoryStore(),
	}
	t.Cleanup(f.server.Close)

	client, err := api.New(f.server.URL, f.store,
		api.WithSessionExpiredHandler(func() { f.expiredCalls.Add(1) }),
	)
	require.NoError(t, err)
	f.client = client
	return f
}

// authenticate seeds the store with the given access token and the shared
// test refresh token, as if a login had happened.
func (f *testFixture) authenticate(t *testing.T, access string) {
	t.Helper()
	require.NoError(t, f.store.Set(credentials.Pair{Access: access, Refresh: testRefresh}))
}

// testAccessToken mints a short-lived JWT shaped like the backend's access
// tokens.
func testAccessToken(t *testing.T, subject string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":        subject,
		"token_type": "access",
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(15 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testUserJSON() map[string]any {
	return map[string]any{
		"id":         testUserID,
		"email":      testUserEmail,
		"username":   "johndoe",
		"first_name": "John",
		"last_name":  "Doe",
		"full_name":  "John Doe",
		"role":       "admin",
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRequest_NoAuthHeaderWhenStoreEmpty(t *testing.T) {
	var authHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, testUserJSON())
	})

	f := newTestFixture(t, mux)
	resp := f.client.Profile(context.Background())

	require.True(t, resp.Ok())
	require.Empty(t, authHeader)
}

func TestRequest_BearerHeaderWhenAuthenticated(t *testing.T) {
	var authHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, testUserJSON())
	})

	f := newTestFixture(t, mux)
	access := testAccessToken(t, testUserID)
	f.authenticate(t, access)

	resp := f.client.Profile(context.Background())

	require.True(t, resp.Ok())
	require.Equal(t, "Bearer "+access, authHeader)
	require.Equal(t, testUserEmail, resp.Data.Email)
}

func TestRequest_RenewalAndRetryOnce(t *testing.T) {
	staleAccess := testAccessToken(t, testUserID)
	newAccess := testAccessToken(t, testUserID+"-renewed")

	var profileCalls, refreshCalls atomic.Int32
	var refreshAuthHeader, refreshBodyToken string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		switch r.Header.Get("Authorization") {
		case "Bearer " + newAccess:
			writeJSON(w, http.StatusOK, testUserJSON())
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		}
	})
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		refreshAuthHeader = r.Header.Get("Authorization")

		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		refreshBodyToken = body["refresh"]

		writeJSON(w, http.StatusOK, map[string]string{"access": newAccess})
	})

	f := newTestFixture(t, mux)
	f.authenticate(t, staleAccess)

	resp := f.client.Profile(context.Background())

	require.True(t, resp.Ok())
	require.Equal(t, testUserEmail, resp.Data.Email)
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 2, profileCalls.Load())
	require.Empty(t, refreshAuthHeader, "refresh call is unauthenticated")
	require.Equal(t, testRefresh, refreshBodyToken)

	access, ok := f.store.Access()
	require.True(t, ok)
	require.Equal(t, newAccess, access)

	refresh, ok := f.store.Refresh()
	require.True(t, ok)
	require.Equal(t, testRefresh, refresh, "refresh token is not rotated")
}

func TestRequest_RenewalFailureClearsStore(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	})
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "refresh token blacklisted"})
	})

	f := newTestFixture(t, mux)
	f.authenticate(t, testAccessToken(t, testUserID))

	resp := f.client.Profile(context.Background())

	require.False(t, resp.Ok())
	require.Equal(t, "token expired", resp.Error)
	require.EqualValues(t, 1, refreshCalls.Load())
	require.EqualValues(t, 1, f.expiredCalls.Load())
	require.False(t, f.store.IsAuthenticated())
}

func TestRequest_SecondUnauthorizedIsFinal(t *testing.T) {
	renewedAccess := testAccessToken(t, testUserID)

	var profileCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "still not valid"})
	})
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": renewedAccess})
	})

	f := newTestFixture(t, mux)
	f.authenticate(t, testAccessToken(t, testUserID+"-stale"))

	resp := f.client.Profile(context.Background())

	require.False(t, resp.Ok())
	require.Equal(t, "still not valid", resp.Error)
	require.EqualValues(t, 1, refreshCalls.Load(), "no renewal loop")
	require.EqualValues(t, 2, profileCalls.Load(), "exactly one retry")
}

func TestRequest_UnauthenticatedUnauthorizedSkipsRenewal(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
	})
	mux.HandleFunc("POST /auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	f := newTestFixture(t, mux)
	resp := f.client.Profile(context.Background())

	require.False(t, resp.Ok())
	require.Equal(t, "Authentication credentials were not provided.", resp.Error)
	require.EqualValues(t, 0, refreshCalls.Load())
	require.EqualValues(t, 0, f.expiredCalls.Load())
}

func TestRequest_FieldErrorsPassedThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "registration failed",
			"errors": map[string][]string{"email": {"a user with this email already exists"}},
		})
	})

	f := newTestFixture(t, mux)
	resp := f.client.Register(context.Background(), validRegisterData())

	require.False(t, resp.Ok())
	require.Equal(t, "registration failed", resp.Error)
	require.Equal(t, []string{"a user with this email already exists"}, resp.Errors["email"])
}

func TestRequest_TransportFailureBecomesEnvelope(t *testing.T) {
	f := newTestFixture(t, http.NewServeMux())
	f.server.Close()

	resp := f.client.Profile(context.Background())

	require.False(t, resp.Ok())
	require.NotEmpty(t, resp.Error)
	require.Nil(t, resp.Data)
}

func TestRequest_GenericFailureFallbackMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	f := newTestFixture(t, mux)
	resp := f.client.Profile(context.Background())

	require.False(t, resp.Ok())
	require.Equal(t, "an unexpected error occurred", resp.Error)
}

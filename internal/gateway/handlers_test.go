package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/observability"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	registerEmail    string
	registerPassword string
	registerProfile  map[string]any
	validatedToken   string
	requestID        string
	hadDeadline      bool

	err  error
	user *rpc.User
}

func (f *fakeAuth) Register(ctx context.Context, email, password string, profile map[string]any) (*rpc.User, error) {
	f.registerEmail, f.registerPassword, f.registerProfile = email, password, profile
	f.requestID = client.RequestID(ctx)
	_, f.hadDeadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.User{ID: "u-1", Email: email, Profile: profile}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + email, nil
}

func (f *fakeAuth) ValidateToken(_ context.Context, token string) (*rpc.User, error) {
	f.validatedToken = token
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAuth) Health(context.Context) (*rpc.HealthResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.HealthResponse{Status: "ok", Service: "auth", UserCount: 1}, nil
}

func newTestRouter(t *testing.T, f *fakeAuth) http.Handler {
	t.Helper()
	registry := observability.NewRegistry()
	h := NewHandlers(f, logging.NewNop(), time.Second)
	h.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return NewRouter(h, registry, observability.NewMetrics(registry), logging.NewNop())
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister_FlatBodyBecomesProfile(t *testing.T) {
	f := &fakeAuth{}
	router := newTestRouter(t, f)

	rec := do(t, router, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"secret1","name":"Alice","address":{"city":"Riga"}}`,
		RequestIDHeader, "req-1")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "a@x.com", f.registerEmail)
	assert.Equal(t, "secret1", f.registerPassword)
	assert.Equal(t, "Alice", f.registerProfile["name"])
	assert.Equal(t, map[string]any{"city": "Riga"}, f.registerProfile["address"])
	assert.NotContains(t, f.registerProfile, "email")
	assert.NotContains(t, f.registerProfile, "password")
	assert.Equal(t, "req-1", f.requestID)
	assert.True(t, f.hadDeadline)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	var u rpc.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "u-1", u.ID)
	assert.NotContains(t, rec.Body.String(), "secret1")
}

func TestRegister_NoProfile(t *testing.T) {
	f := &fakeAuth{}
	rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, f.registerProfile)
}

func TestRegister_BadBodies(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty", body: ``, message: "request body is required"},
		{name: "null", body: `null`, message: "request body is required"},
		{name: "malformed", body: `{"email":`, message: "request body must be a valid JSON object"},
		{name: "array", body: `[1,2]`, message: "request body must be a valid JSON object"},
		{name: "email not string", body: `{"email":5,"password":"x"}`, message: "email must be a string"},
		{name: "trailing garbage", body: `{"email":"a@x.com","password":"secret1"}garbage`, message: "request body must contain a single JSON object"},
		{name: "second object", body: `{"email":"a@x.com","password":"secret1"} {"x":1}`, message: "request body must contain a single JSON object"},
		{name: "stray brace", body: `{"email":"a@x.com","password":"secret1"}}`, message: "request body must contain a single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAuth{}
			rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/register", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, 400, body.StatusCode)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "Bad Request", body.Error)
			assert.Equal(t, common.KindValidation, body.Kind)
			assert.Empty(t, f.registerEmail)
		})
	}
}

func TestRegister_EnvelopePassthrough(t *testing.T) {
	f := &fakeAuth{err: rpc.FromError(common.ErrEmailTaken)}
	rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorBody{
		StatusCode: 400,
		Message:    "Email already in use",
		Error:      "Bad Request",
		Kind:       common.KindEmailTaken,
	}, decodeError(t, rec))
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{})

	rec := do(t, router, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"accessToken":"token-for-a@x.com"}`, rec.Body.String())
}

func TestLogin_RejectsUnknownFields(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeAuth{}), http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1","admin":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "property admin should not exist", body.Message)
	assert.Equal(t, common.KindValidation, body.Kind)
}

func TestLogin_TrailingData(t *testing.T) {
	tests := []string{
		`{"email":"a@x.com","password":"secret1"} {"x":1}`,
		`{"email":"a@x.com","password":"secret1"}garbage`,
		`{"email":"a@x.com","password":"secret1"}}`,
	}

	for _, payload := range tests {
		f := &fakeAuth{}
		rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/login", payload)

		require.Equal(t, http.StatusBadRequest, rec.Code, payload)
		assert.Equal(t, "request body must contain a single JSON object", decodeError(t, rec).Message)
	}
}

func TestLogin_UnknownFieldsReportedInNameOrder(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeAuth{}), http.MethodPost, "/auth/login",
		`{"zeta":1,"email":"a@x.com","password":"secret1","alpha":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "property alpha should not exist", decodeError(t, rec).Message)
}

func TestLogin_WrongTypes(t *testing.T) {
	rec := do(t, newTestRouter(t, &fakeAuth{}), http.MethodPost, "/auth/login", `{"email":"a@x.com","password":42}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be a string", decodeError(t, rec).Message)
}

func TestLogin_Unauthorized(t *testing.T) {
	f := &fakeAuth{err: rpc.FromError(common.ErrorUnauthorized)}
	rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"nope"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Unauthorized", body.Message)
	assert.Equal(t, "Unauthorized", body.Error)
	assert.Equal(t, common.KindUnauthorized, body.Kind)
}

func TestValidateAndMe(t *testing.T) {
	f := &fakeAuth{user: &rpc.User{ID: "u-1", Email: "a@x.com"}}
	router := newTestRouter(t, f)

	rec := do(t, router, http.MethodPost, "/auth/validate", `{"token":"t1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", f.validatedToken)

	rec = do(t, router, http.MethodGet, "/auth/me", "", "Authorization", "Bearer t2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t2", f.validatedToken)

	var u rpc.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	assert.Equal(t, "a@x.com", u.Email)
}

func TestMe_MissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		t.Run(fmt.Sprintf("%q", header), func(t *testing.T) {
			f := &fakeAuth{}
			rec := do(t, newTestRouter(t, f), http.MethodGet, "/auth/me", "", "Authorization", header)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, f.validatedToken)
		})
	}
}

func TestErrors_NonEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "unreachable", err: fmt.Errorf("%w: connection refused", client.ErrUnavailable), status: 503, message: ServiceUnavailableMessage},
		{name: "unexpected", err: errors.New("rpc error: pq: relation users does not exist"), status: 500, message: rpc.InternalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(t, &fakeAuth{err: tt.err}), http.MethodGet, "/auth/health", "")

			require.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Message)
			assert.NotContains(t, rec.Body.String(), "relation users")
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestErrors_StoreEnvelopeKeepsReason(t *testing.T) {
	envelope := rpc.FromError(fmt.Errorf("count users: %w: %w", common.ErrStoreUnavailable, fmt.Errorf("dial tcp: refused")))
	rec := do(t, newTestRouter(t, &fakeAuth{err: envelope}), http.MethodGet, "/auth/health", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, rpc.InternalErrorMessage, body.Message)
	assert.Equal(t, common.KindStoreUnavailable, body.Kind)
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{})

	rec := do(t, router, http.MethodGet, "/auth/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userCount":1`)

	rec = do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"gateway","timestamp":"2026-01-01T00:00:00Z"}`, rec.Body.String())
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	f := &fakeAuth{}
	rec := do(t, newTestRouter(t, f), http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret1"}`)

	id := rec.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, f.requestID)
}

func TestNotFoundAndMethod(t *testing.T) {
	router := newTestRouter(t, &fakeAuth{})

	rec := do(t, router, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /nope", decodeError(t, rec).Message)

	rec = do(t, router, http.MethodGet, "/auth/login", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(logging.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/rpc"
	"github.com/gorilla/mux"
)

// maxBodyBytes caps request bodies; auth payloads are tiny.
const maxBodyBytes = 1 << 20

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenBody struct {
	Token string `json:"token"`
}

// RegisterRoutes mounts the /auth routes on router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/auth/register", h.register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	router.HandleFunc("/auth/validate", h.validate).Methods(http.MethodPost)
	router.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)
}

// readObject reads a body holding exactly one JSON object. Anything after
// the object other than whitespace is rejected.
func readObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.NewValidationError("request body is required")
		}
		return nil, common.NewValidationError(rpc.MalformedBodyMessage)
	}
	if obj == nil {
		return nil, common.NewValidationError("request body is required")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, common.NewValidationError("request body must contain a single JSON object")
	}
	return obj, nil
}

// takeStrings moves the named properties of obj into their destinations.
// Properties are visited in name order so the reported error is stable.
func takeStrings(obj map[string]json.RawMessage, fields map[string]*string) error {
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, fields[key]); err != nil {
			return common.NewValidationError(key + " must be a string")
		}
		delete(obj, key)
	}
	return nil
}

// decodeStrict reads a body whose only properties are the given string
// fields.
func decodeStrict(w http.ResponseWriter, r *http.Request, fields map[string]*string) error {
	obj, err := readObject(w, r)
	if err != nil {
		return err
	}
	if err := takeStrings(obj, fields); err != nil {
		return err
	}
	if len(obj) > 0 {
		unknown := slices.Sorted(maps.Keys(obj))
		return common.NewValidationError(fmt.Sprintf("property %s should not exist", unknown[0]))
	}
	return nil
}

// registerBody splits a flat register payload into credentials and profile.
func registerBody(w http.ResponseWriter, r *http.Request) (credentialsBody, map[string]any, error) {
	obj, err := readObject(w, r)
	if err != nil {
		return credentialsBody{}, nil, err
	}

	var creds credentialsBody
	if err := takeStrings(obj, map[string]*string{"email": &creds.Email, "password": &creds.Password}); err != nil {
		return credentialsBody{}, nil, err
	}
	if len(obj) == 0 {
		return creds, nil, nil
	}

	profile := make(map[string]any, len(obj))
	for key, raw := range obj {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return credentialsBody{}, nil, common.NewValidationError(rpc.MalformedBodyMessage)
		}
		profile[key] = v
	}
	return creds, profile, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	body := toErrorBody(err)
	if body.StatusCode >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", logging.KeyError, err, logging.KeyRequestID, client.RequestID(r.Context()))
	} else {
		h.logger.Debug(r.Context(), op+" rejected", "status", body.StatusCode, "kind", body.Kind)
	}
	writeJSON(w, body.StatusCode, body)
}

// health handles GET /auth/health
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.callContext(r.Context())
	defer cancel()

	resp, err := h.auth.Health(ctx)
	if err != nil {
		h.fail(w, r, "health", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// register handles POST /auth/register
func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	creds, profile, err := registerBody(w, r)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	ctx, cancel := h.callContext(r.Context())
	defer cancel()

	user, err := h.auth.Register(ctx, creds.Email, creds.Password, profile)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// login handles POST /auth/login
func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := decodeStrict(w, r, map[string]*string{"email": &body.Email, "password": &body.Password}); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	ctx, cancel := h.callContext(r.Context())
	defer cancel()

	token, err := h.auth.Login(ctx, body.Email, body.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

// validate handles POST /auth/validate
func (h *Handlers) validate(w http.ResponseWriter, r *http.Request) {
	var body tokenBody
	if err := decodeStrict(w, r, map[string]*string{"token": &body.Token}); err != nil {
		h.fail(w, r, "validate", err)
		return
	}
	h.resolveToken(w, r, body.Token)
}

// me handles GET /auth/me
func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.fail(w, r, "me", common.ErrorUnauthorized)
		return
	}
	h.resolveToken(w, r, token)
}

func (h *Handlers) resolveToken(w http.ResponseWriter, r *http.Request, token string) {
	ctx, cancel := h.callContext(r.Context())
	defer cancel()

	user, err := h.auth.ValidateToken(ctx, token)
	if err != nil {
		h.fail(w, r, "validate", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// liveness handles GET /health. It never calls the auth service.
func (h *Handlers) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "gateway",
		"timestamp": h.now().UTC(),
	})
}

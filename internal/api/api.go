// Package api exposes the intent resolution pipeline over HTTP. Handlers
// sit behind two layers of admission: an optional API key check and the
// per-client rate limiter. Every rejection carries a distinct error body so
// callers can tell auth failure, rate exhaustion, bad input and storage
// trouble apart.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/detect"
	"github.com/ziadkadry99/uire/internal/ratelimit"
	"github.com/ziadkadry99/uire/internal/resolve"
	"github.com/ziadkadry99/uire/internal/store"
	"github.com/ziadkadry99/uire/internal/telemetry"

	"github.com/ziadkadry99/uire/internal/identity"
)

// Handler bundles the pipeline components behind the /v1 routes.
type Handler struct {
	detector  *detect.Detector
	clarifier clarify.Policy
	resolver  *resolve.Resolver
	prefs     *store.PreferenceStore
	consent   *store.ConsentStore
	limiter   *ratelimit.Limiter
	metrics   *telemetry.Registry
	events    *zap.Logger
	salt      string
	apiKey    string // empty disables the key check
}

// Deps carries the constructed collaborators for the handler.
type Deps struct {
	Detector  *detect.Detector
	Clarifier clarify.Policy
	Resolver  *resolve.Resolver
	Prefs     *store.PreferenceStore
	Consent   *store.ConsentStore
	Limiter   *ratelimit.Limiter
	Metrics   *telemetry.Registry
	Events    *zap.Logger
	Salt      string
	APIKey    string
}

// New creates a Handler. A nil Events logger is replaced with a no-op.
func New(d Deps) *Handler {
	events := d.Events
	if events == nil {
		events = zap.NewNop()
	}
	return &Handler{
		detector:  d.Detector,
		clarifier: d.Clarifier,
		resolver:  d.Resolver,
		prefs:     d.Prefs,
		consent:   d.Consent,
		limiter:   d.Limiter,
		metrics:   d.Metrics,
		events:    events,
		salt:      d.Salt,
		apiKey:    d.APIKey,
	}
}

type ctxKey int

const clientKey ctxKey = 0

// clientID returns the hashed client identity placed by the admit middleware.
func clientID(r *http.Request) string {
	id, _ := r.Context().Value(clientKey).(string)
	return id
}

// admit derives the hashed client identity, checks the API key and the rate
// limiter, and only then hands off to the wrapped handler. Rejections here
// happen before any pipeline stage runs and mutate nothing.
func (h *Handler) admit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey != "" && r.Header.Get("X-Api-Key") != h.apiKey {
			http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
			return
		}

		client := identity.FromRequest(r, h.salt)
		if !h.limiter.Allow(client) {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		ctx := context.WithValue(r.Context(), clientKey, client)
		next(w, r.WithContext(ctx))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

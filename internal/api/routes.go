package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/uire/internal/clarify"
	"github.com/ziadkadry99/uire/internal/detect"
	"github.com/ziadkadry99/uire/internal/telemetry"
)

// RegisterRoutes mounts the pipeline API under /v1.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/detect", h.admit(h.handleDetect))
		r.Post("/clarify", h.admit(h.handleClarify))
		r.Post("/resolve", h.admit(h.handleResolve(telemetry.CounterResolved, "resolve")))
		r.Post("/answer", h.admit(h.handleResolve(telemetry.CounterAnswers, "answer")))
		r.Get("/memory", h.admit(h.handleGetMemory))
		r.Post("/memory", h.admit(h.handleSetMemory))
		r.Delete("/memory", h.admit(h.handleClearMemory))
		r.Get("/consent", h.admit(h.handleGetConsent))
		r.Post("/consent", h.admit(h.handleSetConsent))
		r.Get("/stats", h.handleStats)
	})
}

type detectRequest struct {
	Query string `json:"query"`
}

func (h *Handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
		return
	}

	start := time.Now()
	h.metrics.Inc(telemetry.CounterRequests)

	res := h.detector.Detect(req.Query)
	if res.Ambiguous {
		h.metrics.Inc(telemetry.CounterAmbiguous)
	}
	if res.Factors == nil {
		res.Factors = []detect.Factor{}
	}

	elapsed := time.Since(start)
	h.metrics.ObserveLatency(elapsed)
	h.events.Info("detect",
		zap.String("client", clientID(r)),
		zap.String("query", req.Query),
		zap.Bool("ambiguous", res.Ambiguous),
		zap.Float64("score", res.Score),
		zap.Duration("latency", elapsed),
	)

	writeJSON(w, res)
}

type clarifyRequest struct {
	Query   string   `json:"query"`
	Factors []string `json:"factors"`
}

type clarifyResponse struct {
	Questions    []clarify.Question `json:"questions"`
	MaxQuestions int                `json:"max_questions"`
}

func (h *Handler) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req clarifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	start := time.Now()
	h.metrics.Inc(telemetry.CounterRequests)

	factors := make([]detect.Factor, len(req.Factors))
	for i, f := range req.Factors {
		factors[i] = detect.Factor(f)
	}

	qs := h.clarifier.Generate(req.Query, factors)
	if len(qs) > 0 {
		h.metrics.Inc(telemetry.CounterClarifications)
	}
	if qs == nil {
		qs = []clarify.Question{}
	}

	elapsed := time.Since(start)
	h.metrics.ObserveLatency(elapsed)
	h.events.Info("clarify",
		zap.String("client", clientID(r)),
		zap.String("query", req.Query),
		zap.Strings("factors", req.Factors),
		zap.Int("questions", len(qs)),
		zap.Duration("latency", elapsed),
	)

	writeJSON(w, clarifyResponse{Questions: qs, MaxQuestions: clarify.MaxQuestions})
}

type resolveRequest struct {
	Query   string            `json:"query"`
	Answers map[string]string `json:"answers"`
}

// handleResolve serves both /v1/resolve and /v1/answer; the two endpoints
// share one contract and differ only in the counter they bump.
func (h *Handler) handleResolve(counter, event string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		start := time.Now()
		h.metrics.Inc(telemetry.CounterRequests)
		client := clientID(r)

		// A failed preference read fails the whole call; resolving with
		// silently-empty preferences would change user-visible output.
		prefs, err := h.prefs.AllForUser(r.Context(), client)
		if err != nil {
			h.metrics.Inc(telemetry.CounterErrors)
			http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
			return
		}

		res := h.resolver.Resolve(req.Query, req.Answers, prefs)
		h.metrics.Inc(counter)

		elapsed := time.Since(start)
		h.metrics.ObserveLatency(elapsed)
		h.events.Info(event,
			zap.String("client", client),
			zap.String("query", req.Query),
			zap.String("task_type", res.Intent.TaskType),
			zap.String("risk", res.Intent.Risk),
			zap.Duration("latency", elapsed),
		)

		writeJSON(w, res)
	}
}

type memoryResponse struct {
	Prefs map[string]string `json:"prefs"`
}

func (h *Handler) handleGetMemory(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.AllForUser(r.Context(), clientID(r))
	if err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, memoryResponse{Prefs: prefs})
}

type setMemoryRequest struct {
	Prefs map[string]string `json:"prefs"`
}

func (h *Handler) handleSetMemory(w http.ResponseWriter, r *http.Request) {
	var req setMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	client := clientID(r)
	for k, v := range req.Prefs {
		// Memory written through the API is permanent until cleared.
		if err := h.prefs.Set(r.Context(), client, k, v, 0); err != nil {
			h.metrics.Inc(telemetry.CounterErrors)
			http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
			return
		}
	}

	prefs, err := h.prefs.AllForUser(r.Context(), client)
	if err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, memoryResponse{Prefs: prefs})
}

func (h *Handler) handleClearMemory(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.ClearUser(r.Context(), clientID(r)); err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "cleared"})
}

type consentResponse struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) handleGetConsent(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.consent.Get(r.Context(), clientID(r))
	if err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, consentResponse{Accepted: accepted})
}

type setConsentRequest struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) handleSetConsent(w http.ResponseWriter, r *http.Request) {
	var req setConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	client := clientID(r)
	if err := h.consent.Set(r.Context(), client, req.Accepted); err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}

	accepted, err := h.consent.Get(r.Context(), client)
	if err != nil {
		h.metrics.Inc(telemetry.CounterErrors)
		http.Error(w, `{"error":"storage unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, consentResponse{Accepted: accepted})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	s := h.metrics.Stats()
	out := make(map[string]any, len(s.Counters)+2)
	for k, v := range s.Counters {
		out[k] = v
	}
	out["latency_ms_sum"] = s.LatencyMSSum
	out["avg_latency_ms"] = s.AvgLatencyMS
	writeJSON(w, out)
}

package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/matryer/way"
	"github.com/nakamauwu/hireloop/auth"
	"github.com/nakamauwu/hireloop/metrics"
	"github.com/nakamauwu/hireloop/service"
)

// Handler serves the JSON API.
// Requests carrying a bearer token run as the user in it.
type Handler struct {
	Service *service.Service
	Tokens  *auth.Codec
	Logger  log.Logger
	// Metrics defaults to the service ones.
	Metrics *metrics.Metrics
	// MaxUploadMemory is kept in memory while parsing uploads; the rest spills to disk.
	MaxUploadMemory int64

	handler http.Handler
	once    sync.Once
}

func (h *Handler) init() {
	if h.Logger == nil {
		h.Logger = log.NewNopLogger()
	}
	if h.Metrics == nil {
		h.Metrics = h.Service.Metrics
	}
	if h.MaxUploadMemory == 0 {
		h.MaxUploadMemory = defaultMaxUploadMemory
	}

	r := way.NewRouter()

	h.route(r, http.MethodGet, "/api/contacts", h.searchContacts)
	h.route(r, http.MethodGet, "/api/conversations", h.conversations)
	h.route(r, http.MethodPost, "/api/conversations", h.getOrCreateConversation)
	h.route(r, http.MethodGet, "/api/conversations/:conversation_id", h.conversation)
	h.route(r, http.MethodGet, "/api/conversations/:conversation_id/messages", h.messages)
	h.route(r, http.MethodPost, "/api/conversations/:conversation_id/messages", h.sendMessage)
	h.route(r, http.MethodPatch, "/api/conversations/:conversation_id/read", h.markConversationRead)
	h.route(r, http.MethodPost, "/api/conversations/:conversation_id/interviews", h.scheduleInterview)
	h.route(r, http.MethodPatch, "/api/interviews/:message_id/status", h.updateInterviewStatus)
	h.route(r, http.MethodPost, "/api/uploads", h.uploadFiles)
	r.Handle(http.MethodGet, "/metrics", h.Metrics.Handler())
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondErr(w, errNotFound)
	})

	h.handler = h.withUser(r)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, r)
}

// route registers fn observing its latency under the route pattern.
func (h *Handler) route(r *way.Router, method, pattern string, fn http.HandlerFunc) {
	r.HandleFunc(method, pattern, func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		fn(sw, req)
		h.Metrics.ObserveHTTP(method, pattern, sw.code, time.Since(start))
	})
}

func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a := r.Header.Get("Authorization")
		if a == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(a, "Bearer ")
		if !ok || h.Tokens == nil {
			h.respondErr(w, auth.ErrInvalidToken)
			return
		}

		user, err := h.Tokens.Decode(strings.TrimSpace(token))
		if err != nil {
			h.respondErr(w, err)
			return
		}

		ctx := auth.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

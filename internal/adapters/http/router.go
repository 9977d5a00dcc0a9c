package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/brennoviana/mail-triage/internal/core/ports"
)

type Router struct {
	submitter ports.EmailSubmitter
	reader    ports.SubmissionReader

	rateLimitRPS   float64
	rateLimitBurst int
}

type RouterOption func(*Router)

func WithRateLimit(rps float64, burst int) RouterOption {
	return func(rt *Router) {
		rt.rateLimitRPS = rps
		rt.rateLimitBurst = burst
	}
}

func NewRouter(submitter ports.EmailSubmitter, reader ports.SubmissionReader, opts ...RouterOption) *Router {
	rt := &Router{
		submitter: submitter,
		reader:    reader,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	// The limiter guards the submit operation only; health checks and reads
	// stay unthrottled.
	var emails http.Handler = http.HandlerFunc(rt.emails)
	if rt.rateLimitRPS > 0 {
		emails = rateLimitMiddleware(emails, http.MethodPost, rt.rateLimitRPS, rt.rateLimitBurst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.Handle("/api/v1/emails", emails)
	mux.HandleFunc("/api/v1/emails/stats", rt.stats)
	mux.HandleFunc("/api/v1/emails/export", rt.export)

	var handler http.Handler = mux
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) emails(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitEmail(w, r)
	case http.MethodGet:
		rt.listEmails(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	}
}

const maxMultipartMemory = 8 << 20

func (rt *Router) submitEmail(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		rt.submitEmailFile(w, r)
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return
	}

	sub, err := rt.submitter.SubmitText(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (rt *Router) submitEmailFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	sub, err := rt.submitter.SubmitFile(r.Context(), r.FormValue("title"), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (rt *Router) listEmails(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	page, err := rt.reader.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (rt *Router) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}
	stats, err := rt.reader.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorBody(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

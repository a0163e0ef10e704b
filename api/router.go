package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/omrontag/tagscan/catalog"
	"github.com/omrontag/tagscan/config"
)

// PLCStatusResponse is the JSON response for one configured PLC's scan status.
type PLCStatusResponse struct {
	Name         string `json:"name"`
	RecordCount  int    `json:"record_count"`
	LastScan     string `json:"last_scan,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ScanTriggerResponse is the JSON response after a POST scan request.
type ScanTriggerResponse struct {
	PLC     string `json:"plc"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type handlers struct {
	provider Provider
}

// NewRouter builds the catalog API's chi router. When users is non-empty,
// every route is protected by HTTP basic auth checked against bcrypt
// password hashes.
func NewRouter(provider Provider, users []config.RESTUser) chi.Router {
	r := chi.NewRouter()
	h := &handlers{provider: provider}

	if len(users) > 0 {
		r.Use(basicAuth(users))
	}

	r.Get("/plcs", h.handleListPLCs)
	r.Route("/plcs/{name}", func(r chi.Router) {
		r.Get("/catalog", h.handleCatalog)
		r.Post("/scan", h.handleTriggerScan)
	})

	return r
}

func basicAuth(users []config.RESTUser) func(http.Handler) http.Handler {
	byUsername := make(map[string]string, len(users))
	for _, u := range users {
		byUsername[u.Username] = u.PasswordHash
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			hash, known := byUsername[username]
			if !ok || !known || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="tagscan"`)
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *handlers) handleListPLCs(w http.ResponseWriter, r *http.Request) {
	names := h.provider.PLCNames()
	response := make([]PLCStatusResponse, 0, len(names))

	for _, name := range names {
		resp := PLCStatusResponse{Name: name}
		if result, ok := h.provider.LastResult(name); ok {
			resp.RecordCount = len(result.Records)
			resp.LastScan = result.Timestamp.UTC().Format(time.RFC3339)
			if result.Err != nil {
				resp.Error = result.Err.Error()
			}
		}
		response = append(response, resp)
	}

	writeJSON(w, response)
}

func (h *handlers) handleCatalog(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	result, ok := h.provider.LastResult(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no catalog available for this PLC yet")
		return
	}
	if result.Err != nil {
		writeError(w, http.StatusInternalServerError, result.Err.Error())
		return
	}

	records := result.Records
	if records == nil {
		records = []catalog.Record{}
	}
	writeJSON(w, records)
}

func (h *handlers) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.provider.TriggerScan(name)
	resp := ScanTriggerResponse{PLC: name, Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, resp)
}

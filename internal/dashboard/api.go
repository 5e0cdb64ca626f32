// Package dashboard provides the JSON API and live change stream behind the
// catalog back-office dashboard.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jaakkos/backoffice/internal/app"
	"github.com/jaakkos/backoffice/internal/dialog"
	"github.com/jaakkos/backoffice/internal/domain"
)

// ListResponse is the JSON response from the list endpoints.
type ListResponse[T any] struct {
	Query string `json:"query"`
	Total int    `json:"total"` // size of the whole collection
	Items []T    `json:"items"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ClientSnapshot is a per-client summary for /api/clients.
type ClientSnapshot struct {
	ID         string `json:"id"`
	RemoteAddr string `json:"remote_addr"`
	Connected  string `json:"connected"`
	LastEvent  string `json:"last_event"`
	EventsSent int    `json:"events_sent"`
}

// Handler holds dependencies for dashboard HTTP handlers.
type Handler struct {
	svc          *app.CatalogService
	clients      *app.ClientRegistry
	logger       *zap.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// HandlerOption configures optional dependencies for the dashboard handler.
type HandlerOption func(*Handler)

// WithPingInterval sets how often idle event-stream connections are pinged (default 30s).
func WithPingInterval(d time.Duration) HandlerOption {
	return func(h *Handler) { h.pingInterval = d }
}

// NewHandler creates a dashboard handler.
func NewHandler(svc *app.CatalogService, clients *app.ClientRegistry, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		svc:          svc,
		clients:      clients,
		logger:       logger,
		pingInterval: 30 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes adds dashboard routes to the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", listHandler(h, pickProducts))
	mux.HandleFunc("POST /api/products", createHandler[app.ProductChanges](h, pickProducts))
	mux.HandleFunc("GET /api/products/{id}", getHandler(h, pickProducts))
	mux.HandleFunc("PATCH /api/products/{id}", updateHandler[app.ProductChanges](h, pickProducts))
	mux.HandleFunc("DELETE /api/products/{id}", deleteHandler(h, pickProducts))
	mux.HandleFunc("POST /api/products/{id}/toggle/{field}", h.handleToggleProduct)

	mux.HandleFunc("GET /api/users", listHandler(h, pickUsers))
	mux.HandleFunc("POST /api/users", createHandler[app.UserChanges](h, pickUsers))
	mux.HandleFunc("GET /api/users/{id}", getHandler(h, pickUsers))
	mux.HandleFunc("PATCH /api/users/{id}", updateHandler[app.UserChanges](h, pickUsers))
	mux.HandleFunc("DELETE /api/users/{id}", deleteHandler(h, pickUsers))

	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("POST /api/reload", h.handleReload)
	mux.HandleFunc("GET /api/clients", h.handleClients)
	mux.HandleFunc("GET /api/events", h.handleEvents)
	mux.HandleFunc("OPTIONS /api/", h.handlePreflight)
}

func pickProducts(p *app.Pages) *app.ProductPage { return p.Products }
func pickUsers(p *app.Pages) *app.UserPage       { return p.Users }

// changes is implemented by app.ProductChanges and app.UserChanges.
type changes[F any] interface {
	Apply(*F)
}

func listHandler[T app.Entity[T], F dialog.Form[P], P any](h *Handler, pick func(*app.Pages) *app.Page[T, F, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		var resp ListResponse[T]
		_ = h.svc.Query(func(p *app.Pages) error {
			page := pick(p)
			resp = ListResponse[T]{Query: q, Total: len(page.List()), Items: page.Filter(q)}
			return nil
		})
		writeJSON(w, http.StatusOK, resp)
	}
}

func getHandler[T app.Entity[T], F dialog.Form[P], P any](h *Handler, pick func(*app.Pages) *app.Page[T, F, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var (
			rec T
			ok  bool
		)
		_ = h.svc.Query(func(p *app.Pages) error {
			rec, ok = pick(p).Get(id)
			return nil
		})
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func createHandler[C changes[F], T app.Entity[T], F dialog.Form[P], P any](h *Handler, pick func(*app.Pages) *app.Page[T, F, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c C
		if err := decodeBody(w, r, &c); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var rec T
		err := h.svc.Run(func(p *app.Pages) error {
			var err error
			rec, err = pick(p).Create(r.Context(), c.Apply)
			return err
		})
		if err != nil {
			h.writeMutationError(w, err)
			return
		}
		h.logger.Info("record created via api", zap.String("id", rec.RecordID()))
		writeJSON(w, http.StatusCreated, rec)
	}
}

func updateHandler[C changes[F], T app.Entity[T], F dialog.Form[P], P any](h *Handler, pick func(*app.Pages) *app.Page[T, F, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var c C
		if err := decodeBody(w, r, &c); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var (
			rec T
			ok  bool
		)
		err := h.svc.Run(func(p *app.Pages) error {
			var err error
			rec, ok, err = pick(p).Edit(r.Context(), id, c.Apply)
			return err
		})
		if err != nil {
			h.writeMutationError(w, err)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func deleteHandler[T app.Entity[T], F dialog.Form[P], P any](h *Handler, pick func(*app.Pages) *app.Page[T, F, P]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var (
			rec T
			ok  bool
		)
		err := h.svc.Run(func(p *app.Pages) error {
			var err error
			rec, ok, err = pick(p).Delete(r.Context(), id)
			return err
		})
		if err != nil {
			h.writeMutationError(w, err)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (h *Handler) handleToggleProduct(w http.ResponseWriter, r *http.Request) {
	id, field := r.PathValue("id"), domain.Flag(r.PathValue("field"))
	if !slices.Contains(domain.ProductFlags, field) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("field %q cannot be toggled", field))
		return
	}
	var (
		rec domain.Product
		ok  bool
	)
	_ = h.svc.Run(func(p *app.Pages) error {
		rec, ok = p.Products.Toggle(id, field)
		return nil
	})
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("record %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats())
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(); err != nil {
		h.logger.Error("reload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "stats": h.svc.Stats()})
}

func (h *Handler) handleClients(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	out := []ClientSnapshot{}
	for _, c := range h.clients.Clients() {
		out = append(out, ClientSnapshot{
			ID:         c.ID,
			RemoteAddr: c.RemoteAddr,
			Connected:  relTime(c.ConnectedAt, now),
			LastEvent:  relTime(c.LastActivity, now),
			EventsSent: c.Sent,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	var fields dialog.FieldErrors
	switch {
	case errors.As(err, &fields):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, dialog.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled before the change was applied")
	default:
		h.logger.Error("mutation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func relTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}

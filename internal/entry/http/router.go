package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	commonhttp "github.com/dlcaspar/apt-journal/backend/internal/common/http"
	"github.com/dlcaspar/apt-journal/backend/internal/common/jwtverify"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/domain"
	"github.com/dlcaspar/apt-journal/backend/internal/entry/service"
)

type createRequest struct {
	Title   string  `json:"title" validate:"notblank"`
	Content *string `json:"content" validate:"required"`
}

type replaceRequest struct {
	NewTitle   string  `json:"newTitle" validate:"notblank"`
	NewContent *string `json:"newContent" validate:"required"`
}

type entryResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type summaryResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type indexResponse struct {
	Count   int               `json:"count"`
	User    string            `json:"user"`
	Entries []summaryResponse `json:"entries"`
}

// Handler serves the /entries routes. Every route is behind the JWT
// middleware; the principal on the context is only a verified claim, and the
// service re-checks the account inside each transaction.
type Handler struct {
	entries *service.Service
	errs    *commonhttp.ErrorHandler
	log     *logger.Logger
}

func NewHandler(
	entries *service.Service,
	auth func(http.Handler) http.Handler,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		entries: entries,
		errs:    commonhttp.NewErrorHandler(log),
		log:     log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/entries", commonhttp.WithTimeout(timeout)(h.collection))
	mux.HandleFunc("/entries/", commonhttp.WithTimeout(timeout)(h.item))
	return auth(mux)
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseEntryID(r.URL.Path)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, entryID)
	case http.MethodPut:
		h.replace(w, r, entryID)
	case http.MethodDelete:
		h.delete(w, r, entryID)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	index, err := h.entries.List(r.Context(), principal)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	resp := indexResponse{
		Count:   index.Count,
		User:    index.User,
		Entries: make([]summaryResponse, 0, len(index.Entries)),
	}
	for _, s := range index.Entries {
		resp.Entries = append(resp.Entries, summaryResponse{
			ID:        s.ID,
			Title:     s.Title,
			UpdatedAt: s.UpdatedAt,
		})
	}

	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create entry failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Malformed request")
		return
	}

	if err := commonhttp.ValidateBody(req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	entry, err := h.entries.Create(r.Context(), principal, strings.TrimSpace(req.Title), *req.Content)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, entryID int64) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	entry, err := h.entries.Get(r.Context(), principal, entryID)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request, entryID int64) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req replaceRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("replace entry failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Malformed request")
		return
	}

	if err := commonhttp.ValidateBody(req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	entry, err := h.entries.Replace(r.Context(), principal, entryID, strings.TrimSpace(req.NewTitle), *req.NewContent)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, entryID int64) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	if err := h.entries.Delete(r.Context(), principal, entryID); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func principalFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Invalid token")
		return "", false
	}
	return claims.Username, true
}

// parseEntryID rejects non-numeric path parameters before any storage
// access.
func parseEntryID(path string) (int64, error) {
	raw := strings.TrimPrefix(path, "/entries/")
	if raw == "" || strings.Contains(raw, "/") {
		return 0, commonhttp.MalformedParam("params", "entryid")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, commonhttp.MalformedParam("params", "entryid")
	}

	return id, nil
}

func toEntryResponse(e domain.Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Username:  e.Username,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

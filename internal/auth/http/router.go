package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/dlcaspar/apt-journal/backend/internal/auth/service"
	commonerrors "github.com/dlcaspar/apt-journal/backend/internal/common/errors"
	commonhttp "github.com/dlcaspar/apt-journal/backend/internal/common/http"
	"github.com/dlcaspar/apt-journal/backend/internal/common/jwtverify"
	"github.com/dlcaspar/apt-journal/backend/internal/common/logger"
)

type credentialsRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

// Handler serves the /users routes: the public username listing, signup,
// signin, and authenticated self-deletion.
type Handler struct {
	accounts *service.AccountService
	auth     func(http.Handler) http.Handler
	errs     *commonhttp.ErrorHandler
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(
	accounts *service.AccountService,
	auth func(http.Handler) http.Handler,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		accounts: accounts,
		auth:     auth,
		errs:     commonhttp.NewErrorHandler(log),
		timeout:  timeout,
		log:      log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/users", h.users)
	mux.HandleFunc("/users/signup", commonhttp.WithTimeout(timeout)(h.signup))
	mux.HandleFunc("/users/signin", commonhttp.WithTimeout(timeout)(h.signin))
	return mux
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		commonhttp.WithTimeout(h.timeout)(h.list)(w, r)
	case http.MethodDelete:
		commonhttp.WithTimeout(h.timeout)(h.deleteAccount)(w, r)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	usernames, err := h.accounts.ListUsernames(r.Context())
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, usernames)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Malformed request")
		return
	}

	if err := commonhttp.ValidateBody(req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	token, err := h.accounts.Signup(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteText(w, http.StatusCreated, token)
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req credentialsRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signin failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Malformed request")
		return
	}

	if err := commonhttp.ValidateBody(req); err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	token, err := h.accounts.Signin(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		h.errs.HandleError(w, r, err)
		return
	}

	commonhttp.WriteText(w, http.StatusOK, token)
}

// deleteAccount validates the query parameter before authentication, then
// requires the parameter to name the authenticated principal. Deleting
// someone else's account is a 403 even with a valid token.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimSpace(r.URL.Query().Get("username"))
	if target == "" {
		h.errs.HandleError(w, r, commonhttp.MalformedParam("query", "username"))
		return
	}

	h.auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := jwtverify.FromContext(r.Context())
		if !ok {
			commonhttp.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if target != claims.Username {
			h.errs.HandleError(w, r, commonerrors.ErrDifferentUser)
			return
		}

		if err := h.accounts.DeleteAccount(r.Context(), claims.Username); err != nil {
			h.errs.HandleError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(w, r)
}

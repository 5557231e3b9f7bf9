package account

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/httpx"
)

// CredentialsRequest is the JSON body of register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse echoes the stored account, password included, which is
// what the web client keeps as its session.
type AccountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func toAccountResponse(acct Account) AccountResponse {
	return AccountResponse{
		ID:       acct.ID.String(),
		Username: acct.Username,
		Password: acct.Password,
	}
}

// Handler serves the account routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[CredentialsRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	acct, err := h.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "account registered", "account_id", acct.ID.String())
	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(acct))
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	req, err := httpx.DecodeJSON[CredentialsRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	acct, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "account logged in", "account_id", acct.ID.String())
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

func (h *Handler) writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		logger.WarnContext(ctx, "invalid credentials request", logAttrs...)
		httpx.WriteKindError(w, err, "Username and password are required", "")

	case errx.Conflict:
		logger.WarnContext(ctx, "username taken", logAttrs...)
		httpx.WriteKindError(w, err, "Username already exists", "Pick a different username")

	case errx.NotFound:
		logger.WarnContext(ctx, "unknown username", logAttrs...)
		httpx.WriteKindError(w, err, "Wrong Username", "Please register first")

	case errx.Unauthorized:
		logger.WarnContext(ctx, "wrong password", logAttrs...)
		httpx.WriteKindError(w, err, "Wrong Password", "")

	case errx.Unavailable:
		logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteKindError(w, err, "Unable to reach the account store. Please try again.", "")

	default:
		logger.ErrorContext(ctx, "unexpected account error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error",
			"Unable to process the request at this time", nil)
	}
}

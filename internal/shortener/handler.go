package shortener

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/internal/httpx"
)

const (
	DefaultDisplayHost = "nano.link"
	DefaultQREndpoint  = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="
	DefaultFallbackURL = "/welcome"
)

// HTTPCreateLinkRequest represents the JSON request body for creating a link.
type HTTPCreateLinkRequest struct {
	LongURL    string `json:"longUrl"`
	CustomCode string `json:"customCode,omitempty"`
	UserID     string `json:"userId,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

// CreateLinkResponse represents the JSON response for a created link.
type CreateLinkResponse struct {
	ID           string     `json:"id"`
	ShortURL     string     `json:"shortUrl"`
	ShortCode    string     `json:"shortCode"`
	LongURL      string     `json:"longUrl"`
	QRCodeBase64 string     `json:"qrCodeBase64"`
	Clicks       int64      `json:"clicks"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}

// LinkResponse is the stored link as the web client sees it.
type LinkResponse struct {
	ID         string     `json:"id"`
	ShortCode  string     `json:"shortCode"`
	LongURL    string     `json:"longUrl"`
	UserID     string     `json:"userId,omitempty"`
	Clicks     int64      `json:"clicks"`
	ExpiryDate *time.Time `json:"expiryDate"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toLinkResponse(link Link) LinkResponse {
	return LinkResponse{
		ID:         link.ID.String(),
		ShortCode:  link.ShortCode,
		LongURL:    link.LongURL,
		UserID:     link.OwnerID,
		Clicks:     link.Clicks,
		ExpiryDate: link.ExpiresAt,
		IsActive:   link.IsActive,
		CreatedAt:  link.CreatedAt,
	}
}

// Handler provides HTTP handlers for the URL shortener service.
type Handler struct {
	service     Service
	logger      *slog.Logger
	displayHost string
	qrEndpoint  string
	fallbackURL string
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service Service
	Logger  *slog.Logger
	// DisplayHost prefixes the code in shortUrl, e.g. "nano.link".
	DisplayHost string
	// QREndpoint is followed by the escaped long URL to form qrCodeBase64.
	QREndpoint string
	// FallbackURL is where unknown, expired and inactive codes redirect.
	FallbackURL string
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		service:     cfg.Service,
		logger:      logger,
		displayHost: cfg.DisplayHost,
		qrEndpoint:  cfg.QREndpoint,
		fallbackURL: cfg.FallbackURL,
	}
	if h.displayHost == "" {
		h.displayHost = DefaultDisplayHost
	}
	if h.qrEndpoint == "" {
		h.qrEndpoint = DefaultQREndpoint
	}
	if h.fallbackURL == "" {
		h.fallbackURL = DefaultFallbackURL
	}
	return h
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", httpx.GetRequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

// CreateLink handles POST /api/shorten.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)

	req, err := httpx.DecodeJSON[HTTPCreateLinkRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"error", err.Error(),
		)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
		return
	}

	expiresAt, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"error", err.Error(),
			"expiry_date", req.ExpiryDate,
		)
		httpx.WriteError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)
		return
	}

	link, err := h.service.Create(ctx, CreateLinkRequest{
		LongURL:    req.LongURL,
		CustomCode: req.CustomCode,
		OwnerID:    req.UserID,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		h.handleCreateError(ctx, logger, w, err)
		return
	}

	logger.InfoContext(ctx, "link created",
		"link_id", link.ID.String(),
		"short_code", link.ShortCode,
		"custom_code", req.CustomCode != "",
	)

	httpx.WriteJSON(w, http.StatusCreated, CreateLinkResponse{
		ID:           link.ID.String(),
		ShortURL:     h.displayHost + "/" + link.ShortCode,
		ShortCode:    link.ShortCode,
		LongURL:      link.LongURL,
		QRCodeBase64: h.qrEndpoint + url.QueryEscape(link.LongURL),
		Clicks:       link.Clicks,
		ExpiryDate:   link.ExpiresAt,
	})
}

// Redirect handles GET /{code}. Codes that cannot be served send the visitor
// to the fallback URL instead of an error page.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	link, err := h.service.Resolve(ctx, code)
	if err != nil {
		switch errx.KindOf(err) {
		case errx.NotFound, errx.Invalid:
			logger.InfoContext(ctx, "code not servable, redirecting to fallback",
				"short_code", code,
				"error_kind", errx.KindOf(err),
			)
			http.Redirect(w, r, h.fallbackURL, http.StatusFound)
		default:
			h.writeError(ctx, logger, w, err, "Unable to resolve this link at this time")
		}
		return
	}

	logger.InfoContext(ctx, "code resolved",
		"short_code", code,
		"clicks", link.Clicks,
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)

	http.Redirect(w, r, link.LongURL, http.StatusFound)
}

// GetLink handles GET /api/url/{code}. It does not count a click.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	link, err := h.service.Lookup(ctx, code)
	if err != nil {
		switch errx.KindOf(err) {
		case errx.NotFound, errx.Invalid:
			logger.WarnContext(ctx, "link not found", "short_code", code)
			httpx.WriteError(w, http.StatusNotFound, "not_found", "short link doesn't exist", nil)
		default:
			h.writeError(ctx, logger, w, err, "Unable to load this link at this time")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLinkResponse(link))
}

// RecordClick handles POST /api/click/{code}.
func (h *Handler) RecordClick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	code := r.PathValue("code")

	if err := h.service.RecordClick(ctx, code); err != nil {
		h.writeError(ctx, logger, w, err, "Unable to record the click at this time")
		return
	}

	logger.DebugContext(ctx, "click recorded", "short_code", code)
	httpx.WriteNoContent(w)
}

// ListActivity handles GET /api/activity?userId=.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	ownerID := r.URL.Query().Get("userId")

	links, err := h.service.ListByOwner(ctx, ownerID)
	if err != nil {
		h.writeError(ctx, logger, w, err, "Unable to load activity at this time")
		return
	}

	resp := make([]LinkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkResponse(link))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// DeleteLink handles DELETE /api/activity/{id}.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.requestLogger(r)
	id := r.PathValue("id")

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeError(ctx, logger, w, err, "Unable to delete the link at this time")
		return
	}

	logger.InfoContext(ctx, "link deleted", "link_id", id)
	httpx.WriteNoContent(w)
}

// handleCreateError handles errors from the Create service method.
func (h *Handler) handleCreateError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Conflict:
		logger.WarnContext(ctx, "short code conflict", logAttrs...)
		httpx.WriteKindError(w, err, errx.MessageOf(err),
			"Try a different custom code or let us generate one for you")

	case errx.Invalid:
		logger.WarnContext(ctx, "invalid link request", logAttrs...)
		httpx.WriteKindError(w, err, errx.MessageOf(err), "")

	default:
		h.writeError(ctx, logger, w, err, "Unable to create short link at this time. Please try again.")
	}
}

// writeError logs err and writes the response for its kind. Client errors
// carry the cause; everything else gets message.
func (h *Handler) writeError(ctx context.Context, logger *slog.Logger, w http.ResponseWriter, err error, message string) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid, errx.NotFound, errx.Conflict:
		logger.WarnContext(ctx, "request failed", logAttrs...)
		httpx.WriteKindError(w, err, errx.MessageOf(err), "")

	case errx.Unavailable:
		logger.ErrorContext(ctx, "service unavailable", logAttrs...)
		httpx.WriteKindError(w, err, message, "Please try again.")

	default:
		logger.ErrorContext(ctx, "unexpected error", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
	}
}

// expiryLayouts are tried in order. Zone-less values are read as UTC.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// parseExpiryDate returns nil for an empty value.
func parseExpiryDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("expiryDate %q must be an RFC 3339 or yyyy-MM-ddTHH:mm[:ss] date-time", s)
}

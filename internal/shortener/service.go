package shortener

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/nanolink/internal/errx"
	"github.com/sundayezeilo/nanolink/shortcode"
)

const MaxURLLength = 2048

// CreateLinkRequest represents the parameters for creating a new link.
type CreateLinkRequest struct {
	LongURL    string
	CustomCode string     // Optional: if empty, a code will be generated
	OwnerID    string     // Optional
	ExpiresAt  *time.Time // Optional: defaults to now + DefaultTTL
}

// Service defines the business logic operations for URL shortening.
type Service interface {
	Create(ctx context.Context, req CreateLinkRequest) (Link, error)
	// Resolve returns the link for a redirect and counts the click.
	Resolve(ctx context.Context, code string) (Link, error)
	// Lookup returns the link without counting a click.
	Lookup(ctx context.Context, code string) (Link, error)
	// RecordClick counts a click without redirecting. Unknown codes are ignored.
	RecordClick(ctx context.Context, code string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Link, error)
	// Delete removes a link by ID. Missing links are not an error.
	Delete(ctx context.Context, id string) error
}

// service implements the Service interface.
type service struct {
	repo        Repository
	codes       shortcode.Generator
	codeLength  int
	codeRetries int
	ttl         time.Duration
	index       *CodeIndex
	now         func() time.Time
}

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CodeGenerator shortcode.Generator
	CodeLength    int
	// CodeRetries is how many extra codes to try when a generated code is
	// taken. Zero means a collision is reported as a conflict.
	CodeRetries int
	DefaultTTL  time.Duration
	// CodeIndex is optional. When set, generated codes it may contain are
	// checked against the store before use, and new codes are added to it.
	CodeIndex *CodeIndex
	Now       func() time.Time
}

// NewService creates a new service instance.
func NewService(repo Repository, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	codes := config.CodeGenerator
	if codes == nil {
		codes = shortcode.NewBase62()
	}

	codeLength := config.CodeLength
	if codeLength < shortcode.MinLength || codeLength > shortcode.MaxLength {
		codeLength = shortcode.DefaultLength
	}

	ttl := config.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		repo:        repo,
		codes:       codes,
		codeLength:  codeLength,
		codeRetries: max(config.CodeRetries, 0),
		ttl:         ttl,
		index:       config.CodeIndex,
		now:         now,
	}
}

// Create creates a new short link with an optional custom code.
func (s *service) Create(ctx context.Context, req CreateLinkRequest) (Link, error) {
	const op = "shortener.service.Create"

	if err := validateURL(req.LongURL); err != nil {
		return Link{}, errx.E(op, errx.Invalid, err)
	}

	expiresAt := req.ExpiresAt
	if expiresAt == nil {
		t := s.now().Add(s.ttl)
		expiresAt = &t
	}

	link := Link{
		LongURL:   req.LongURL,
		OwnerID:   req.OwnerID,
		Clicks:    0,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}

	// Custom code path: free the code if its holder is stale, then insert once
	if req.CustomCode != "" {
		if err := shortcode.ValidateCustom(req.CustomCode); err != nil {
			return Link{}, errx.E(op, errx.Invalid, err)
		}
		if err := s.reclaim(ctx, req.CustomCode); err != nil {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}

		link.ShortCode = req.CustomCode
		created, err := s.insert(ctx, link)
		if err != nil {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}
		return created, nil
	}

	// Generated code path: one attempt plus any configured retries
	var lastErr error
	for range s.codeRetries + 1 {
		code, err := s.codes.Generate(s.codeLength)
		if err != nil {
			return Link{}, errx.E(op, errx.Internal, err)
		}

		taken, err := s.codeTaken(ctx, code)
		if err != nil {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}
		if taken {
			lastErr = errx.E(op, errx.Conflict, fmt.Errorf("generated short code %q already in use", code))
			continue
		}

		link.ShortCode = code
		created, err := s.insert(ctx, link)
		if err == nil {
			return created, nil
		}

		// Retry on conflict, fail on other errors
		if errx.KindOf(err) != errx.Conflict {
			return Link{}, errx.E(op, errx.KindOf(err), err)
		}
		lastErr = err
	}

	return Link{}, errx.E(op, errx.Conflict, lastErr)
}

// reclaim makes code available for a new link. A missing holder needs no
// work, a stale one (expired or inactive) is deleted, a live one is a conflict.
func (s *service) reclaim(ctx context.Context, code string) error {
	const op = "shortener.service.reclaim"

	existing, err := s.repo.FindByCode(ctx, code)
	if errx.KindOf(err) == errx.NotFound {
		return nil
	}
	if err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}

	if expired, _ := EvaluateExpiry(&existing, s.now()); !expired {
		return errx.E(op, errx.Conflict, fmt.Errorf("short code %q already in use", code))
	}

	if err := s.repo.DeleteByID(ctx, existing.ID); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func (s *service) codeTaken(ctx context.Context, code string) (bool, error) {
	if s.index == nil || !s.index.MayContain(code) {
		return false, nil
	}
	return s.repo.ExistsByCode(ctx, code)
}

func (s *service) insert(ctx context.Context, link Link) (Link, error) {
	created, err := s.repo.Save(ctx, link)
	if err != nil {
		return Link{}, err
	}
	if s.index != nil {
		s.index.Add(created.ShortCode)
	}
	return created, nil
}

func (s *service) Resolve(ctx context.Context, code string) (Link, error) {
	return s.fetch(ctx, "shortener.service.Resolve", code, true)
}

func (s *service) Lookup(ctx context.Context, code string) (Link, error) {
	return s.fetch(ctx, "shortener.service.Lookup", code, false)
}

// fetch loads a servable link. An expired or inactive link is NotFound, but a
// first-time expiry flip is still written back. With countClick the counter
// is incremented in the same transaction as the read.
func (s *service) fetch(ctx context.Context, op, code string, countClick bool) (Link, error) {
	if code == "" {
		return Link{}, errx.E(op, errx.Invalid, errors.New("short code cannot be empty"))
	}

	now := s.now()
	var expired bool
	link, err := s.repo.Update(ctx, code, func(l *Link) bool {
		var mutated bool
		expired, mutated = EvaluateExpiry(l, now)
		if expired {
			return mutated
		}
		if countClick {
			l.Clicks++
			return true
		}
		return false
	})
	if err != nil {
		return Link{}, errx.E(op, errx.KindOf(err), err)
	}
	if expired {
		return Link{}, errx.E(op, errx.NotFound, fmt.Errorf("short code %q is expired or inactive", code))
	}
	return link, nil
}

func (s *service) RecordClick(ctx context.Context, code string) error {
	const op = "shortener.service.RecordClick"

	if _, err := s.Resolve(ctx, code); err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return nil
		}
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]Link, error) {
	const op = "shortener.service.ListByOwner"

	if ownerID == "" {
		return []Link{}, nil
	}

	links, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, errx.E(op, errx.KindOf(err), err)
	}
	if links == nil {
		links = []Link{}
	}
	return links, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	const op = "shortener.service.Delete"

	// An ID that does not parse cannot match any record.
	linkID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if err := s.repo.DeleteByID(ctx, linkID); err != nil {
		return errx.E(op, errx.KindOf(err), err)
	}
	return nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("longUrl is required")
	}
	if len(rawURL) > MaxURLLength {
		return errors.New("longUrl too long (max 2048 characters)")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid longUrl format")
	}
	if parsedURL.Scheme == "" {
		return errors.New("longUrl must include scheme (http or https)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("longUrl scheme must be http or https")
	}
	if parsedURL.Host == "" {
		return errors.New("longUrl must include host")
	}
	return nil
}

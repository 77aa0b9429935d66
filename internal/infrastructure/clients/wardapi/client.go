package wardapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/wardwatch/internal/domain/entities"
	"github.com/zatekoja/wardwatch/internal/domain/providers"
	"github.com/zatekoja/wardwatch/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/wardwatch/pkg/errors"
	"github.com/zatekoja/wardwatch/pkg/retry"
)

// invalidTokenMessage is the backend's marker for a dead session. Any other
// 401 (e.g. unverified email) must NOT clear persisted credentials.
const invalidTokenMessage = "invalid token"

// HTTPClient talks to the ward availability backend over REST. It implements
// providers.WardProvider.
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	tokens        providers.TokenSource
	onAuthFailure func()
	retryCfg      retry.Config
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithTimeout overrides the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithRetryConfig overrides the retry policy used for idempotent reads
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *HTTPClient) {
		c.retryCfg = cfg
	}
}

// WithAuthFailureHook registers the session-invalidation hook invoked when
// the backend reports the bearer token as invalid.
func WithAuthFailureHook(hook func()) Option {
	return func(c *HTTPClient) {
		c.onAuthFailure = hook
	}
}

// NewClient creates a ward API client
func NewClient(baseURL string, tokens providers.TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens:   tokens,
		retryCfg: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type wardListResponse struct {
	Data []entities.Ward   `json:"data"`
	Meta entities.ListMeta `json:"meta"`
}

type hospitalListResponse struct {
	Data []entities.Hospital `json:"data"`
	Meta entities.ListMeta   `json:"meta"`
}

// ListWards fetches a page of wards matching the filter
func (c *HTTPClient) ListWards(ctx context.Context, req providers.ListWardsRequest) (*entities.WardList, error) {
	parsed, err := url.Parse(c.baseURL + "/wards")
	if err != nil {
		return nil, apperrors.NewInternalError("invalid ward API base URL", err)
	}

	query := parsed.Query()
	if req.Search != "" {
		query.Set("search", req.Search)
	}
	if req.FavoritesOnly {
		query.Set("favorites_only", "true")
	}
	if req.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	parsed.RawQuery = query.Encode()

	out := &wardListResponse{}
	if err := c.getWithRetry(ctx, "wards", parsed.String(), out); err != nil {
		return nil, err
	}
	return &entities.WardList{Wards: out.Data, Meta: out.Meta}, nil
}

// ListHospitals fetches hospital availability rows for a ward
func (c *HTTPClient) ListHospitals(ctx context.Context, wardName string, req providers.ListHospitalsRequest) ([]entities.Hospital, error) {
	if strings.TrimSpace(wardName) == "" {
		return nil, apperrors.NewValidationError("ward name is required")
	}

	parsed, err := url.Parse(fmt.Sprintf("%s/wards/%s/hospitals", c.baseURL, url.PathEscape(wardName)))
	if err != nil {
		return nil, apperrors.NewInternalError("invalid ward API base URL", err)
	}

	query := parsed.Query()
	if req.District != "" {
		query.Set("district", req.District)
	}
	if req.Search != "" {
		query.Set("search", req.Search)
	}
	if req.Order != "" {
		query.Set("order", req.Order)
	}
	if req.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", req.Offset))
	}
	parsed.RawQuery = query.Encode()

	out := &hospitalListResponse{}
	if err := c.getWithRetry(ctx, "hospitals", parsed.String(), out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AddFavorite marks a ward as a favorite. Mutations are never retried: the
// favorites engine guarantees exactly one mutation per accepted toggle.
func (c *HTTPClient) AddFavorite(ctx context.Context, wardName string) error {
	body := strings.NewReader(fmt.Sprintf(`{"ward_name":%q}`, wardName))
	return c.doJSON(ctx, http.MethodPost, c.baseURL+"/favorites", body, nil)
}

// RemoveFavorite removes a ward from the user's favorites. A 404 here means
// the favorite was already gone, which is an out-of-sync conflict rather
// than a missing resource.
func (c *HTTPClient) RemoveFavorite(ctx context.Context, wardName string) error {
	endpoint := fmt.Sprintf("%s/favorites/by-ward/%s", c.baseURL, url.PathEscape(wardName))
	err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return apperrors.NewConflictError(fmt.Sprintf("favorite for %s no longer exists", wardName))
	}
	return err
}

// CurrentInsight returns the active advisory, or nil when the backend
// answers 204.
func (c *HTTPClient) CurrentInsight(ctx context.Context) (*entities.Insight, error) {
	out := &entities.Insight{}
	found := false

	err := c.retryGet(ctx, "insights", func() error {
		hit, err := c.doJSONMaybe(ctx, http.MethodGet, c.baseURL+"/insights/current", nil, out)
		if err != nil {
			return err
		}
		found = hit
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}
	return out, nil
}

func (c *HTTPClient) getWithRetry(ctx context.Context, name, endpoint string, out interface{}) error {
	return c.retryGet(ctx, name, func() error {
		return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
	})
}

// retryGet retries fn on network-shaped failures only. Auth, conflict and
// validation responses are definitive answers from the backend and are
// returned as-is.
func (c *HTTPClient) retryGet(ctx context.Context, name string, fn func() error) error {
	var permanent error
	err := retry.DoWithLog(ctx, c.retryCfg, name, func() error {
		err := fn()
		if err != nil && apperrors.TypeOf(err) != apperrors.ErrorTypeExternal {
			permanent = err
			return nil
		}
		return err
	}, c.logRetry(ctx))
	if permanent != nil {
		return permanent
	}
	return err
}

func (c *HTTPClient) logRetry(ctx context.Context) func(attempt int, err error, nextDelay time.Duration) {
	return func(attempt int, err error, nextDelay time.Duration) {
		observability.LoggerFromContext(ctx).Warn().
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Err(err).
			Msg("ward API request failed, retrying")
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	_, err := c.doJSONMaybe(ctx, method, endpoint, body, out)
	return err
}

// doJSONMaybe performs a request and decodes the body into out when there is
// one. The boolean is false for 204 responses.
func (c *HTTPClient) doJSONMaybe(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return false, apperrors.NewInternalError("failed to build ward API request", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := observability.LoggerFromContext(ctx)
	started := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, apperrors.NewExternalError("ward API request failed", err)
	}
	defer resp.Body.Close()

	logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("ward API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, c.errorFromResponse(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, apperrors.NewExternalError("failed to decode ward API response", err)
	}

	return true, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *HTTPClient) errorFromResponse(resp *http.Response) error {
	var parsed errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &parsed)

	message := parsed.Error
	if message == "" {
		message = parsed.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if strings.Contains(strings.ToLower(message), invalidTokenMessage) && c.onAuthFailure != nil {
			c.onAuthFailure()
		}
		return apperrors.NewUnauthorizedError(message)
	case http.StatusForbidden:
		return apperrors.NewUnauthorizedError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return apperrors.NewValidationError(message)
	default:
		return apperrors.NewExternalError(
			fmt.Sprintf("ward API returned status %d", resp.StatusCode), nil)
	}
}

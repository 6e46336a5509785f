// Package fabricclient implements usecases.FabricClient against the
// Fabric REST API: chained authentication, token-bucket rate limiting,
// a circuit breaker, retry-with-backoff, and long-running-operation
// polling (§4.M).
package fabricclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// displayNamePattern is the Fabric item naming rule: start with a
// letter, then up to 89 more letters/digits/underscores (§4.M).
var displayNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,89}$`)

const maxDisplayNameLength = 90

// Config carries everything needed to reach one Fabric workspace.
type Config struct {
	APIBaseURL   string
	WorkspaceID  string
	TenantID     string
	ClientID     string
	ClientSecret string
	AmbientToken string
	RateLimit    int           // requests per RatePeriod, 0 uses the default
	RatePeriod   time.Duration // 0 defaults to one minute
	Breaker      BreakerConfig
}

// Client implements usecases.FabricClient against the Fabric REST API.
type Client struct {
	cfg     Config
	http    *http.Client
	tokens  *tokenCache
	limiter *RateLimiter
	breaker *gobreaker.CircuitBreaker
	logger  usecases.Logger
}

// New builds a resilient Fabric client from cfg. logger may be nil.
func New(cfg Config, logger usecases.Logger) *Client {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RatePeriod <= 0 {
		cfg.RatePeriod = time.Minute
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 60 * time.Second},
		tokens:  newTokenCache(NewChainedCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, cfg.AmbientToken)),
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RatePeriod, cfg.RateLimit),
		logger:  logger,
	}
	c.breaker = newBreaker("fabric-api", cfg.Breaker, func(from, to gobreaker.State) {
		if c.logger != nil {
			c.logger.Warn(fmt.Sprintf("circuit breaker %s -> %s", from, to))
		}
	})
	return c
}

func (c *Client) itemsURL() string {
	return fmt.Sprintf("%s/workspaces/%s/ontologies", c.cfg.APIBaseURL, c.cfg.WorkspaceID)
}

func (c *Client) itemURL(id string) string {
	return fmt.Sprintf("%s/%s", c.itemsURL(), id)
}

// apiResponse is the decoded shape of a synchronous (200/201) response,
// or the Location/Retry-After pair of an asynchronous (202) one.
type apiResponse struct {
	body       []byte
	lro        bool
	location   string
	retryAfter time.Duration
}

// doRequest applies rate limiting and the circuit breaker around one
// HTTP round trip, translating non-2xx/202 statuses into APIError or
// TransientError per §4.M.
func (c *Client) doRequest(ctx context.Context, method, url string, payload any) (apiResponse, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return apiResponse{}, err
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.executeOnce(ctx, method, url, payload)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return apiResponse{}, &CircuitOpenError{RemainingSeconds: c.cfg.Breaker.RecoveryTimeout.Seconds()}
		}
		return apiResponse{}, err
	}
	return result.(apiResponse), nil
}

func (c *Client) executeOnce(ctx context.Context, method, url string, payload any) (apiResponse, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return apiResponse{}, err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apiResponse{}, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apiResponse{}, &TransientError{StatusCode: 0, RetryAfter: 5, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiResponse{}, fmt.Errorf("read response body: %w", err)
	}

	return classifyResponse(resp, raw)
}

func classifyResponse(resp *http.Response, raw []byte) (apiResponse, error) {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return apiResponse{body: raw, retryAfter: retryAfterHeader(resp, 0)}, nil
	case http.StatusNoContent:
		return apiResponse{}, nil
	case http.StatusAccepted:
		return apiResponse{
			lro:        true,
			location:   resolveLocation(resp, resp.Header.Get("Location")),
			retryAfter: retryAfterHeader(resp, lroFallbackInterval),
		}, nil
	case http.StatusTooManyRequests:
		return apiResponse{}, &TransientError{StatusCode: 429, RetryAfter: int(retryAfterHeader(resp, 30*time.Second).Seconds()), Message: "rate limit exceeded"}
	case http.StatusServiceUnavailable:
		return apiResponse{}, &TransientError{StatusCode: 503, RetryAfter: int(retryAfterHeader(resp, 10*time.Second).Seconds()), Message: "service temporarily unavailable"}
	default:
		return apiResponse{}, parseAPIError(resp.StatusCode, raw)
	}
}

// resolveLocation joins a Location header against the request it came
// from, since Fabric's docs describe it as a relative URL in some
// responses and absolute in others.
func resolveLocation(resp *http.Response, location string) string {
	if location == "" || resp.Request == nil {
		return location
	}
	ref, err := url.Parse(location)
	if err != nil {
		return location
	}
	return resp.Request.URL.ResolveReference(ref).String()
}

func retryAfterHeader(resp *http.Response, fallback time.Duration) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func parseAPIError(statusCode int, raw []byte) error {
	var decoded struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	errorCode := "Unknown"
	message := string(raw)
	if len(raw) > 0 && json.Unmarshal(raw, &decoded) == nil {
		if decoded.Message != "" {
			message = decoded.Message
		}
		if decoded.ErrorCode != "" {
			errorCode = decoded.ErrorCode
		}
	}
	return &APIError{StatusCode: statusCode, ErrorCode: errorCode, Message: message}
}

type itemDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	WorkspaceID string `json:"workspaceId"`
}

func (d itemDTO) toEntity(workspaceID string) usecases.OntologyItem {
	ws := d.WorkspaceID
	if ws == "" {
		ws = workspaceID
	}
	return usecases.OntologyItem{ID: d.ID, DisplayName: d.DisplayName, WorkspaceID: ws}
}

func (c *Client) List(ctx context.Context) ([]usecases.OntologyItem, error) {
	resp, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodGet, c.itemsURL(), nil)
	})
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Value []itemDTO `json:"value"`
	}
	if len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, &decoded); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
	}

	items := make([]usecases.OntologyItem, 0, len(decoded.Value))
	for _, d := range decoded.Value {
		items = append(items, d.toEntity(c.cfg.WorkspaceID))
	}
	return items, nil
}

// FindByName scans the items List returns for an exact display-name
// match. List reads a single response page; continuation links are not
// followed.
func (c *Client) FindByName(ctx context.Context, name string) (*usecases.OntologyItem, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.DisplayName == name {
			return &item, nil
		}
	}
	return nil, nil
}

func (c *Client) Get(ctx context.Context, id string) (*usecases.OntologyItem, error) {
	resp, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodGet, c.itemURL(id), nil)
	})
	if err != nil {
		return nil, err
	}
	var dto itemDTO
	if err := json.Unmarshal(resp.body, &dto); err != nil {
		return nil, fmt.Errorf("decode get response: %w", err)
	}
	item := dto.toEntity(c.cfg.WorkspaceID)
	return &item, nil
}

type definitionDTO struct {
	Parts []entities.Part `json:"parts"`
}

func (c *Client) GetDefinition(ctx context.Context, id string) (*entities.Bundle, error) {
	url := fmt.Sprintf("%s/getDefinition", c.itemURL(id))

	resp, err := withRetry(ctx, getDefinitionRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		resp, err := c.doRequest(ctx, http.MethodPost, url, nil)
		if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
			// A just-created item's definition may not be queryable yet.
			return apiResponse{}, &TransientError{StatusCode: 404, RetryAfter: 2, Message: "definition not yet available"}
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	if resp.lro {
		result, err := pollLRO(ctx, nil, nil, c.definitionPoller(resp.location))
		if err != nil {
			return nil, err
		}
		if result.Status != usecases.OperationSucceeded {
			return nil, &APIError{StatusCode: 500, ErrorCode: "OperationFailed", Message: result.ErrorMessage}
		}
		return c.fetchDefinitionResult(ctx, resp.location)
	}

	var dto definitionDTO
	if err := json.Unmarshal(resp.body, &dto); err != nil {
		return nil, fmt.Errorf("decode definition response: %w", err)
	}
	return &entities.Bundle{Parts: dto.Parts}, nil
}

// fetchDefinitionResult fetches the operation's result once the poller
// reports success; the status document at location carries no payload,
// so the definition is read from location + "/result".
func (c *Client) fetchDefinitionResult(ctx context.Context, location string) (*entities.Bundle, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, location+"/result", nil)
	if err != nil {
		return nil, err
	}
	var dto definitionDTO
	if err := json.Unmarshal(resp.body, &dto); err != nil {
		return nil, fmt.Errorf("decode definition result: %w", err)
	}
	return &entities.Bundle{Parts: dto.Parts}, nil
}

func (c *Client) Create(ctx context.Context, displayName string) (string, error) {
	payload := map[string]any{"displayName": sanitizeDisplayName(displayName)}

	resp, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodPost, c.itemsURL(), payload)
	})
	if err != nil {
		return "", err
	}

	if resp.lro {
		result, err := pollLRO(ctx, nil, nil, c.operationPoller(resp.location))
		if err != nil {
			return "", err
		}
		if result.Status != usecases.OperationSucceeded {
			return "", &APIError{StatusCode: 500, ErrorCode: "OperationFailed", Message: result.ErrorMessage}
		}
		return result.ResourceID, nil
	}

	var dto itemDTO
	if err := json.Unmarshal(resp.body, &dto); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	return dto.ID, nil
}

func (c *Client) UpdateDefinition(ctx context.Context, id string, bundle *entities.Bundle, tok *cancel.Token, progress usecases.ProgressReporter) (*usecases.OperationResult, error) {
	if tok != nil {
		if err := tok.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	url := fmt.Sprintf("%s/updateDefinition?updateMetadata=True", c.itemURL(id))
	payload := map[string]any{"definition": bundle}

	resp, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodPost, url, payload)
	})
	if err != nil {
		return nil, err
	}

	if !resp.lro {
		return &usecases.OperationResult{Status: usecases.OperationSucceeded, ResourceID: id}, nil
	}
	return pollLRO(ctx, tok, progress, c.operationPoller(resp.location))
}

func (c *Client) UpdateMetadata(ctx context.Context, id, displayName string) error {
	payload := map[string]any{"displayName": sanitizeDisplayName(displayName)}
	_, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodPatch, c.itemURL(id), payload)
	})
	return err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := withRetry(ctx, standardRetryPolicy(), func(ctx context.Context) (apiResponse, error) {
		return c.doRequest(ctx, http.MethodDelete, c.itemURL(id), nil)
	})
	return err
}

// CreateOrUpdate is the §6 `upload` convenience operation: find by
// name, create if absent, otherwise update the definition in place.
func (c *Client) CreateOrUpdate(ctx context.Context, displayName string, bundle *entities.Bundle, tok *cancel.Token, progress usecases.ProgressReporter) (*usecases.OperationResult, error) {
	if tok != nil {
		if err := tok.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	safeName := sanitizeDisplayName(displayName)
	existing, err := c.FindByName(ctx, safeName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return c.UpdateDefinition(ctx, existing.ID, bundle, tok, progress)
	}

	id, err := c.Create(ctx, safeName)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && apiErr.ErrorCode == itemDisplayNameAlreadyInUse {
			existing, findErr := c.FindByName(ctx, safeName)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return c.UpdateDefinition(ctx, existing.ID, bundle, tok, progress)
			}
		}
		return nil, err
	}
	return c.UpdateDefinition(ctx, id, bundle, tok, progress)
}

// sanitizeDisplayName enforces Fabric's item naming rule, truncating
// and stripping characters outside [A-Za-z0-9_] as the original client
// does (§4.M).
func sanitizeDisplayName(name string) string {
	if displayNamePattern.MatchString(name) {
		return name
	}

	cleaned := make([]rune, 0, maxDisplayNameLength)
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			cleaned = append(cleaned, r)
		case (r >= '0' && r <= '9' || r == '_') && len(cleaned) > 0:
			cleaned = append(cleaned, r)
		}
		if len(cleaned) >= maxDisplayNameLength {
			break
		}
	}
	if len(cleaned) == 0 {
		return "Ontology"
	}
	return string(cleaned)
}

// operationPoller adapts an LRO status document fetched from location
// into lroStatus, extracting the resource ID from the Location path
// segment once the operation succeeds.
func (c *Client) operationPoller(location string) lroPoller {
	return func(ctx context.Context) (lroStatus, error) {
		resp, err := c.doRequest(ctx, http.MethodGet, location, nil)
		if err != nil {
			return lroStatus{}, err
		}

		var doc struct {
			Status          string `json:"status"`
			PercentComplete int    `json:"percentComplete"`
			Error           struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(resp.body, &doc); err != nil {
			return lroStatus{}, fmt.Errorf("decode operation status: %w", err)
		}

		switch doc.Status {
		case "Succeeded":
			return lroStatus{status: usecases.OperationSucceeded, resourceID: lastPathSegment(location), done: true}, nil
		case "Failed":
			return lroStatus{status: usecases.OperationFailed, errorMessage: doc.Error.Message, done: true}, nil
		default:
			return lroStatus{status: usecases.OperationRunning, retryAfter: resp.retryAfter}, nil
		}
	}
}

// definitionPoller is operationPoller under another name; GetDefinition
// ignores the resource ID it extracts and checks only for success.
func (c *Client) definitionPoller(location string) lroPoller {
	return c.operationPoller(location)
}

func lastPathSegment(url string) string {
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '/' {
			return url[i+1:]
		}
	}
	return url
}

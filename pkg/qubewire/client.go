package qubewire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/reelwire/dcpflow-backend/pkg/config"
	pkgerrors "github.com/reelwire/dcpflow-backend/pkg/errors"
	"github.com/reelwire/dcpflow-backend/pkg/logger"
)

var (
	errTokenRequired   = errors.New("qube wire personal access token is required")
	errBaseURLRequired = errors.New("qube wire base url is required")
	errLoggerRequired  = errors.New("qube wire logger is required")
)

// Client wraps the Qube Wire REST API with centralized auth, logging, and
// error mapping. Tokens are supplied per call because each distributor
// authenticates with its own credential; the client never retains one.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient initializes the wire API wrapper against the base URL selected
// by the configured environment (test vs. production).
func NewClient(ctx context.Context, cfg config.QubeWireConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.SelectedBaseURL()), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logg,
	}

	logg.Info(logg.WithField(ctx, "wire_environment", cfg.Environment), "qube wire client initialized")
	return c, nil
}

// BaseURL reports the configured API root.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// CreateBookings submits a batch of deliveries under a single distributor token.
func (c *Client) CreateBookings(ctx context.Context, token string, req CreateBookingsRequest) (*CreateBookingsResponse, error) {
	c.log(ctx, "request", "create_bookings", map[string]any{
		"client_reference_id": req.ClientReferenceID,
		"deliveries":          len(req.DCPDeliveries),
	})

	var resp CreateBookingsResponse
	if err := c.do(ctx, token, http.MethodPost, "/v1/bookings", req, &resp); err != nil {
		c.log(ctx, "error", "create_bookings", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "create_bookings", map[string]any{
		"client_reference_id": resp.ClientReferenceID,
		"deliveries":          len(resp.DCPDeliveries),
	})
	return &resp, nil
}

// ListDeliveries fetches the delivery-status records for a content identifier.
func (c *Client) ListDeliveries(ctx context.Context, token, contentID string) ([]DeliveryRecord, error) {
	c.log(ctx, "request", "list_deliveries", map[string]any{"content_id": contentID})

	endpoint := "/v1/bookings/dcps"
	if contentID != "" {
		endpoint += "?" + url.Values{"content_id": []string{contentID}}.Encode()
	}

	var records []DeliveryRecord
	if err := c.do(ctx, token, http.MethodGet, endpoint, nil, &records); err != nil {
		c.log(ctx, "error", "list_deliveries", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "list_deliveries", map[string]any{
		"content_id": contentID,
		"records":    len(records),
	})
	return records, nil
}

// Health verifies the token can reach the API.
func (c *Client) Health(ctx context.Context, token string) error {
	c.log(ctx, "request", "health", nil)
	if err := c.do(ctx, token, http.MethodGet, "/health", nil, nil); err != nil {
		c.log(ctx, "error", "health", map[string]any{"error": err.Error()})
		return err
	}
	c.log(ctx, "response", "health", nil)
	return nil
}

func (c *Client) do(ctx context.Context, token, method, endpoint string, body, out any) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, errTokenRequired, "wire call rejected")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding wire request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building wire request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wire request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading wire response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapStatusError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding wire response")
	}
	return nil
}

func (c *Client) mapStatusError(status int, raw []byte) error {
	message := extractMessage(raw)
	err := fmt.Errorf("wire api status %d: %s", status, message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "wire credential rejected")
	case status == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, "wire rate limit hit")
	case status >= 400 && status < 500:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "wire rejected request")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wire api unavailable")
	}
}

func extractMessage(raw []byte) string {
	if len(raw) == 0 {
		return "no body"
	}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("qube wire %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("qube wire %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "pat", "secret", "authorization", "email"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

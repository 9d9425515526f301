package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studi-jo/billetterie/pkg/domain"
)

// TokenProvider supplies the bearer token attached to outgoing requests.
// Returning "" leaves the request unauthenticated.
type TokenProvider func() string

// Config assembles a Client. BaseURL is mandatory; everything else has a
// usable zero value.
type Config struct {
	// BaseURL is the backend host, e.g. "https://api.example.com".
	BaseURL string
	// DefaultHeaders are sent with every request; per-call headers win.
	DefaultHeaders map[string]string
	// Token supplies the bearer token when a call has no explicit
	// Authorization header.
	Token TokenProvider
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	// Logger receives request-level diagnostics. Nil means silent.
	Logger *zap.Logger
}

// Client talks to the ticketing backend. It owns JSON encoding, header
// merging, bearer injection and error classification; the typed methods on
// top of it stay one-liners.
type Client struct {
	baseURL        string
	defaultHeaders map[string]string
	token          TokenProvider
	httpClient     *http.Client
	log            *zap.Logger
}

// New creates a backend client. A missing base URL is a startup configuration
// error, reported immediately rather than on first call.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client.New: no API host configured")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:        base,
		defaultHeaders: cfg.DefaultHeaders,
		token:          cfg.Token,
		httpClient:     httpClient,
		log:            log,
	}, nil
}

// RequestOptions tune a single call made through Request.
type RequestOptions struct {
	// Method defaults to GET, or POST when Body is set.
	Method string
	// Body is JSON-encoded unless it is already a []byte or string.
	Body any
	// Headers are merged over the client-wide defaults.
	Headers map[string]string
}

// Request performs one call and returns the response body decoded according
// to its Content-Type: JSON becomes map/slice values, text/* a string, other
// types raw bytes, and no content type yields nil. A body that does not parse
// as its declared type is an error, never a silent nil. Non-2xx responses
// return a *HTTPError.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (any, error) {
	raw, contentType, err := c.roundTrip(ctx, opts.Method, path, opts.Body, opts.Headers)
	if err != nil {
		return nil, err
	}
	return decodeBody(raw, contentType)
}

// decodeBody interprets a response body by declared content type.
func decodeBody(raw []byte, contentType string) (any, error) {
	if contentType == "" {
		return nil, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}
	switch {
	case strings.Contains(mediaType, "json"):
		if len(raw) == 0 {
			return nil, nil
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return decoded, nil
	case strings.HasPrefix(mediaType, "text/"):
		return string(raw), nil
	default:
		return raw, nil
	}
}

// roundTrip is the single network path: URL building, body encoding, header
// merging, bearer injection and non-2xx classification all happen here.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var (
		reqBody  io.Reader
		jsonBody bool
	)
	switch b := body.(type) {
	case nil:
	case []byte:
		reqBody = bytes.NewReader(b)
	case string:
		reqBody = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		jsonBody = true
	}

	if method == "" {
		method = http.MethodGet
		if body != nil {
			method = http.MethodPost
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	merged := map[string]string{"Accept": "application/json"}
	for k, v := range c.defaultHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	if jsonBody && !hasHeader(merged, "Content-Type") {
		merged["Content-Type"] = "application/json"
	}
	if !hasHeader(merged, "Authorization") && c.token != nil {
		if tok := strings.TrimSpace(c.token()); tok != "" {
			merged["Authorization"] = ensureBearer(tok)
		}
	}
	for k, v := range merged {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := classifyError(resp.StatusCode, raw)
		c.log.Debug("backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", httpErr.Message))
		return nil, "", httpErr
	}

	return raw, resp.Header.Get("Content-Type"), nil
}

// classifyError builds the structured error for a non-2xx response: the JSON
// body's `message` field when present, the status text otherwise, with the
// decoded body kept as detail.
func classifyError(status int, raw []byte) *HTTPError {
	message := http.StatusText(status)
	if message == "" {
		message = "Unknown error"
	}

	var details any
	if len(raw) > 0 && json.Unmarshal(raw, &details) == nil {
		if obj, ok := details.(map[string]any); ok {
			if msg, ok := obj["message"].(string); ok && strings.TrimSpace(msg) != "" {
				message = msg
			}
		}
	}

	return &HTTPError{Status: status, Message: message, Details: details}
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func ensureBearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// do runs a JSON call and decodes the response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	raw, _, err := c.roundTrip(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// LoginRequest is the credential payload for the customer login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyLoginRequest trades a pending challenge and its emailed code for a token.
type VerifyLoginRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

// RegisterRequest is the payload for creating a customer account.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
}

// Login submits customer credentials. The response either carries a token or
// flags a pending two-factor challenge.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, routeCustomerLogin, req, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// VerifyLogin completes a two-factor challenge.
func (c *Client) VerifyLogin(ctx context.Context, req VerifyLoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.do(ctx, http.MethodPost, routeCustomerLoginVerify, req, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.VerifyLogin: %w", err)
	}
	return &resp, nil
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.RegisterResponse, error) {
	var resp domain.RegisterResponse
	if err := c.do(ctx, http.MethodPost, routeCustomerRegister, req, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Profile fetches the authenticated customer's profile, normalized to the
// canonical User shape at this boundary.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var raw domain.ProfileResponse
	if err := c.do(ctx, http.MethodGet, routeCustomerMe, nil, &raw, nil); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	user := domain.NormalizeUser(raw)
	return &user, nil
}

// Tickets fetches the customer's purchased tickets.
func (c *Client) Tickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.do(ctx, http.MethodGet, routeCustomerTickets, nil, &tickets, nil); err != nil {
		return nil, fmt.Errorf("client.Tickets: %w", err)
	}
	return tickets, nil
}

// ListOffers fetches the published offers.
func (c *Client) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := c.do(ctx, http.MethodGet, routeOffers, nil, &offers, nil); err != nil {
		return nil, fmt.Errorf("client.ListOffers: %w", err)
	}
	return offers, nil
}

// GetOffer fetches a single offer by ID.
func (c *Client) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	var offer domain.Offer
	if err := c.do(ctx, http.MethodGet, offerPath(id), nil, &offer, nil); err != nil {
		return nil, fmt.Errorf("client.GetOffer: %w", err)
	}
	return &offer, nil
}

// Checkout opens a payment session for an offer. Each call carries a fresh
// idempotency key so a retried submission cannot double-charge.
func (c *Client) Checkout(ctx context.Context, offerID int64) (*domain.CheckoutResponse, error) {
	body := map[string]int64{"offer_id": offerID}
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	var resp domain.CheckoutResponse
	if err := c.do(ctx, http.MethodPost, routePaymentsCheckout, body, &resp, headers); err != nil {
		return nil, fmt.Errorf("client.Checkout: %w", err)
	}
	return &resp, nil
}

// PaymentStatus fetches the state of a checkout session.
func (c *Client) PaymentStatus(ctx context.Context, sessionID string) (*domain.PaymentStatusResponse, error) {
	var resp domain.PaymentStatusResponse
	if err := c.do(ctx, http.MethodGet, paymentStatusPath(sessionID), nil, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.PaymentStatus: %w", err)
	}
	return &resp, nil
}

// Package musetax implements the core.APIClient port against the musetax
// categorization REST service.
package musetax

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/musetax/checkboost-onboard/core"
)

// maxErrorBody bounds how much of an error response body is read for
// detail extraction.
const maxErrorBody = 1 << 20

// Client is the HTTP client layer: thin typed wrappers around the remote
// calls. It returns structured errors and performs no user-facing
// notification.
type Client struct {
	config Config
	http   *http.Client
	log    zerolog.Logger
}

var _ core.APIClient = (*Client)(nil)

func New(config Config, log zerolog.Logger) *Client {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = defaults.AuthURL
	}
	if config.ServiceKey == "" {
		config.ServiceKey = defaults.ServiceKey
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		log:    log,
	}
}

// ObtainAccessToken exchanges a credential pair for an access token. The
// call is unauthenticated, form-encoded, and carries the Service-Key
// header; any rejection is an auth-kind failure.
func (c *Client) ObtainAccessToken(ctx context.Context, creds core.Credentials) (*core.AccessTokenResponse, error) {
	const op = "obtain access token"

	form := url.Values{}
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &core.APIError{Kind: core.KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Service-Key", c.config.ServiceKey)

	var out core.AccessTokenResponse
	if err := c.do(req, op, authKind, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a user, bearer-authenticated.
func (c *Client) CreateUser(ctx context.Context, draft core.UserDraft, accessToken string) (*core.CreateUserResponse, error) {
	const op = "create user"

	req, err := c.jsonRequest(ctx, op, c.config.BaseURL+"/users", draft, accessToken)
	if err != nil {
		return nil, err
	}

	// The API returns more fields than we model; keep them all.
	var raw map[string]any
	if err := c.do(req, op, statusKind, &raw); err != nil {
		return nil, err
	}

	resp := &core.CreateUserResponse{Extra: raw}
	if id, ok := raw["user_id"].(string); ok {
		resp.UserID = id
	}
	if msg, ok := raw["message"].(string); ok {
		resp.Message = msg
	}
	return resp, nil
}

// CreateWidgetSession exchanges a user id for a widget session token. A 2xx
// response without the token is a semantic failure, not a transport one:
// the detail field becomes the message.
func (c *Client) CreateWidgetSession(ctx context.Context, userID string, domainURLs []string, accessToken string) (*core.WidgetSessionResponse, error) {
	const op = "create widget session"

	body := map[string]any{
		"user_id":     userID,
		"domain_urls": domainURLs,
	}
	req, err := c.jsonRequest(ctx, op, c.config.BaseURL+"/widgets/session", body, accessToken)
	if err != nil {
		return nil, err
	}

	var out core.WidgetSessionResponse
	if err := c.do(req, op, statusKind, &out); err != nil {
		return nil, err
	}

	if out.SessionToken == "" {
		detail := out.Detail
		if detail == "" {
			detail = "Invalid session token response"
		}
		return nil, &core.APIError{Kind: core.KindNotFound, StatusCode: http.StatusOK, Op: op, Detail: detail}
	}
	return &out, nil
}

// SubmitTransactions submits one transaction batch. The success payload is
// opaque; only a 2xx status means success.
func (c *Client) SubmitTransactions(ctx context.Context, batch core.TransactionBatch) (map[string]any, error) {
	const op = "submit transactions"

	req, err := c.jsonRequest(ctx, op, c.config.BaseURL+"/transactions", batch, "")
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := c.do(req, op, statusKind, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) jsonRequest(ctx context.Context, op, target string, body any, accessToken string) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &core.APIError{Kind: core.KindTransport, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, &core.APIError{Kind: core.KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}

// do sends the request, maps non-2xx statuses to APIErrors via kindFor,
// and decodes a successful body into out.
func (c *Client) do(req *http.Request, op string, kindFor func(int) core.ErrorKind, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("request failed")
		return &core.APIError{Kind: core.KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &core.APIError{Kind: core.KindTransport, StatusCode: resp.StatusCode, Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &core.APIError{
			Kind:       kindFor(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Op:         op,
			Detail:     extractDetail(body),
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("op", op).Str("detail", apiErr.Detail).Msg("request rejected")
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &core.APIError{Kind: core.KindTransport, StatusCode: resp.StatusCode, Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// authKind classifies token endpoint rejections: any 4xx means the
// credential pair was rejected.
func authKind(status int) core.ErrorKind {
	if status >= 400 && status < 500 {
		return core.KindAuth
	}
	return core.KindTransport
}

// statusKind classifies bearer-authenticated endpoint rejections.
func statusKind(status int) core.ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.KindAuth
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		return core.KindValidation
	default:
		return core.KindTransport
	}
}

// extractDetail pulls the server-provided detail field out of an error
// body. The field may be a string or a list; the first element wins.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var list []any
	if err := json.Unmarshal(envelope.Detail, &list); err == nil && len(list) > 0 {
		if first, ok := list[0].(string); ok {
			return first
		}
		return fmt.Sprint(list[0])
	}
	return ""
}

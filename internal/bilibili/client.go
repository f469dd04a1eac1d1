// Package bilibili wraps the Bilibili web endpoints used by the client:
// QR login, account info and the watch-history cursor feed.
package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

const (
	// DefaultAPIBaseURL is the public web API host.
	DefaultAPIBaseURL = "https://api.bilibili.com"
	// DefaultPassportBaseURL is the login host.
	DefaultPassportBaseURL = "https://passport.bilibili.com"

	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"
	defaultTimeout = 30 * time.Second
)

// Config holds endpoint and transport settings.
type Config struct {
	APIBaseURL      string
	PassportBaseURL string
	UserAgent       string
	Timeout         time.Duration
}

// DefaultConfig returns the production endpoints.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:      DefaultAPIBaseURL,
		PassportBaseURL: DefaultPassportBaseURL,
		UserAgent:       defaultUserAgent,
		Timeout:         defaultTimeout,
	}
}

// Client talks to the Bilibili web API. It holds no session state; every
// authenticated call takes the session explicitly.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a client. Empty config fields fall back to DefaultConfig.
func New(config Config) *Client {
	def := DefaultConfig()
	if config.APIBaseURL == "" {
		config.APIBaseURL = def.APIBaseURL
	}
	if config.PassportBaseURL == "" {
		config.PassportBaseURL = def.PassportBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// envelope is the common response wrapper of every endpoint.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get issues a GET request and decodes the envelope. A non-zero envelope code
// becomes a *FeedError; everything else that goes wrong is a *TransportError.
func (c *Client) get(
	ctx context.Context,
	op, endpoint string,
	query url.Values,
	session *models.Session,
) (*envelope, []*http.Cookie, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Referer", "https://www.bilibili.com/")
	if session != nil && len(session.Cookies) > 0 {
		req.Header.Set("Cookie", session.CookieHeader())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "op", op, "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("(status %d): %s", resp.StatusCode, truncateBody(body)),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, &TransportError{Op: op, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if env.Code != 0 {
		return &env, nil, &FeedError{Op: op, Code: env.Code, Message: env.Message}
	}

	return &env, resp.Cookies(), nil
}

// decodeData unmarshals the envelope payload into out.
func decodeData(op string, env *envelope, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to parse %s data: %w", op, err)}
	}
	return nil
}

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

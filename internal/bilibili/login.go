package bilibili

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// QR login poll codes.
const (
	QRCodeConfirmed  = 0
	QRCodeExpired    = 86038
	QRCodeScanned    = 86090
	QRCodeNotScanned = 86101
)

// QRCode is a freshly issued login code.
type QRCode struct {
	URL string `json:"url"`
	Key string `json:"qrcode_key"`
}

// PollResult is the login state reported for a QR code.
type PollResult struct {
	Code    int
	Message string
	Session *models.Session // set only when Code is QRCodeConfirmed
}

type pollData struct {
	URL          string `json:"url"`
	RefreshToken string `json:"refresh_token"`
	Timestamp    int64  `json:"timestamp"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
}

// GenerateQRCode requests a new login QR code.
func (c *Client) GenerateQRCode(ctx context.Context) (*QRCode, error) {
	const op = "qrcode generate"

	env, _, err := c.get(ctx, op, c.config.PassportBaseURL+"/x/passport-login/web/qrcode/generate", nil, nil)
	if err != nil {
		return nil, err
	}

	var qr QRCode
	if err := decodeData(op, env, &qr); err != nil {
		return nil, err
	}
	if qr.URL == "" || qr.Key == "" {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("response is missing url or qrcode_key")}
	}
	return &qr, nil
}

// PollQRCode reports the login state of a QR code. On confirmation the
// session is built from the response cookies, falling back to the
// credentials embedded in the redirect URL.
func (c *Client) PollQRCode(ctx context.Context, key string) (*PollResult, error) {
	const op = "qrcode poll"
	if key == "" {
		return nil, fmt.Errorf("%s: qrcode key is empty", op)
	}

	query := url.Values{}
	query.Set("qrcode_key", key)

	env, cookies, err := c.get(ctx, op, c.config.PassportBaseURL+"/x/passport-login/web/qrcode/poll", query, nil)
	if err != nil {
		return nil, err
	}

	var data pollData
	if err := decodeData(op, env, &data); err != nil {
		return nil, err
	}

	result := &PollResult{Code: data.Code, Message: data.Message}
	if data.Code != QRCodeConfirmed {
		return result, nil
	}

	sessionCookies := toModelCookies(cookies)
	if !hasCookie(sessionCookies, models.SessionCookie) {
		sessionCookies = append(sessionCookies, cookiesFromRedirect(data.URL)...)
	}
	session := models.NewSession(sessionCookies, data.RefreshToken, time.Now())
	if !session.Valid() {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("login confirmed without a %s cookie", models.SessionCookie)}
	}
	result.Session = &session
	return result, nil
}

func toModelCookies(cookies []*http.Cookie) []models.Cookie {
	out := make([]models.Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" || c.Value == "" {
			continue
		}
		out = append(out, models.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func hasCookie(cookies []models.Cookie, name string) bool {
	for _, c := range cookies {
		if c.Name == name {
			return true
		}
	}
	return false
}

// cookiesFromRedirect extracts the credential query params of the
// cross-domain redirect URL returned with a confirmed login.
func cookiesFromRedirect(raw string) []models.Cookie {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	q := u.Query()
	var out []models.Cookie
	for _, name := range []string{models.SessionCookie, "bili_jct", "DedeUserID", "DedeUserID__ckMd5"} {
		if v := q.Get(name); v != "" {
			out = append(out, models.Cookie{Name: name, Value: v})
		}
	}
	return out
}

package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
)

const (
	DefaultEndpoint = "https://openapi.youdao.com/api"
	DefaultFrom     = "en"
	DefaultTo       = "zh-CHS"

	signType = "v3"

	defaultHTTPTimeout = 10 * time.Second
)

// YoudaoConfig configures a direct, signed client.
type YoudaoConfig struct {
	Endpoint string
	AppKey   string
	Secret   string
	From     string
	To       string
}

// YoudaoClient calls the dictionary API directly. It needs the app secret,
// so it only runs server-side.
type YoudaoClient struct {
	cfg        YoudaoConfig
	httpClient *http.Client

	now  func() time.Time
	salt func() string
}

// NewYoudaoClient creates a signed client, filling in default endpoint and
// languages.
func NewYoudaoClient(cfg YoudaoConfig) *YoudaoClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	if cfg.To == "" {
		cfg.To = DefaultTo
	}
	return &YoudaoClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		now:  time.Now,
		salt: func() string { return uuid.NewString() },
	}
}

// IsConfigured returns true if credentials are present.
func (c *YoudaoClient) IsConfigured() bool {
	return c.cfg.AppKey != "" && c.cfg.Secret != ""
}

// Translate sends one signed request. No retries.
func (c *YoudaoClient) Translate(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: translation credentials not configured", ErrTransport)
	}

	salt := c.salt()
	curtime := strconv.FormatInt(c.now().Unix(), 10)

	form := url.Values{}
	form.Set("q", text)
	form.Set("from", c.cfg.From)
	form.Set("to", c.cfg.To)
	form.Set("appKey", c.cfg.AppKey)
	form.Set("salt", salt)
	form.Set("signType", signType)
	form.Set("sign", Sign(c.cfg.AppKey, text, salt, curtime, c.cfg.Secret))
	form.Set("curtime", curtime)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	return handleResponse(resp)
}

// Sign computes the v3 request signature:
// hex(sha256(appKey + Truncate(q) + salt + curtime + secret)).
func Sign(appKey, q, salt, curtime, secret string) string {
	sum := sha256.Sum256([]byte(appKey + Truncate(q) + salt + curtime + secret))
	return hex.EncodeToString(sum[:])
}

// Truncate shortens q for signing: inputs of up to 20 characters are used
// as-is, longer ones become the first 10 characters, the character count
// and the last 10 characters. Characters are UTF-16 code units, as counted
// by the dictionary service, so a character outside the BMP counts twice.
func Truncate(q string) string {
	units := utf16.Encode([]rune(q))
	n := len(units)
	if n <= 20 {
		return q
	}
	return string(utf16.Decode(units[:10])) + strconv.Itoa(n) + string(utf16.Decode(units[n-10:]))
}

// handleResponse decodes a dictionary response and maps failures.
func handleResponse(resp *http.Response) (*Result, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &ServiceError{Status: resp.StatusCode}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrTransport, err)
	}
	if result.ErrorCode != "" && result.ErrorCode != "0" {
		return nil, &ServiceError{Code: result.ErrorCode, Status: resp.StatusCode}
	}
	return &result, nil
}

// IsServiceError reports whether err came from the remote service.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

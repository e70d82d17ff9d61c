package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned by point lookups that match no row.
var ErrNotFound = errors.New("record not found")

// Client issues authenticated HTTPS calls against the hosted backend: the
// auth endpoints, the row query interface and the named serverless
// functions. It holds no session state; callers pass the bearer token.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	functionsURL string
	apiKey       string
}

// NewClient builds a Client for the given backend endpoints.
func NewClient(baseURL, functionsURL, apiKey string) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      baseURL,
		functionsURL: functionsURL,
		apiKey:       apiKey,
	}
}

// doJSON performs one JSON request/response round trip. The apikey header
// rides on every call; Authorization only when a token is supplied. The
// response body is returned raw together with the status code so callers
// can decode error payloads from non-2xx responses too.
func (c *Client) doJSON(ctx context.Context, method, url, token string, payload interface{}) (int, []byte, error) {
	return c.doJSONWithHeaders(ctx, method, url, token, payload, nil)
}

func (c *Client) doJSONWithHeaders(ctx context.Context, method, url, token string, payload interface{}, headers map[string]string) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Debug("remote call failed")
		return 0, nil, err
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, data, nil
}

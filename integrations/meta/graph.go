package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AzielCF/daily-post/core/config"
	"github.com/sirupsen/logrus"
)

const (
	httpTimeout = 30 * time.Second

	instagramFallbackMessage = "Instagram Graph API request failed"
	facebookFallbackMessage  = "Facebook Graph API request failed"
	refreshFallbackMessage   = "Meta token refresh failed"
)

// TokenFunc resolves the access token to send with a request.
type TokenFunc func(ctx context.Context) (string, error)

// StaticToken always returns the same token.
func StaticToken(token string) TokenFunc {
	return func(context.Context) (string, error) { return token, nil }
}

// GraphError is a failed Graph API call. Message carries the platform message
// when one was returned.
type GraphError struct {
	StatusCode int
	Code       int
	Type       string
	Message    string
}

func (e *GraphError) Error() string {
	return e.Message
}

type graphErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

type graphResponse struct {
	ID          string          `json:"id"`
	PostID      string          `json:"post_id"`
	StatusCode  string          `json:"status_code"`
	Status      string          `json:"status"`
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	Error       *graphErrorBody `json:"error"`
}

// GraphClient performs form posts and reads against a versioned Graph API.
type GraphClient struct {
	BaseURL    string
	Version    string
	HTTPClient *http.Client
}

func NewGraphClient(cfg config.MetaConfig) *GraphClient {
	base := cfg.GraphBaseURL
	if base == "" {
		base = "https://graph.facebook.com"
	}
	version := cfg.GraphAPIVersion
	if version == "" {
		version = "v20.0"
	}
	return &GraphClient{
		BaseURL:    strings.TrimRight(base, "/"),
		Version:    version,
		HTTPClient: &http.Client{Timeout: httpTimeout},
	}
}

func (g *GraphClient) endpoint(path string) string {
	return fmt.Sprintf("%s/%s/%s", g.BaseURL, g.Version, strings.TrimLeft(path, "/"))
}

func (g *GraphClient) postForm(ctx context.Context, path string, form url.Values, fallback string) (graphResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(path), strings.NewReader(form.Encode()))
	if err != nil {
		return graphResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.do(req, fallback)
}

func (g *GraphClient) get(ctx context.Context, path string, query url.Values, fallback string) (graphResponse, error) {
	target := g.endpoint(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return graphResponse{}, err
	}
	return g.do(req, fallback)
}

func (g *GraphClient) do(req *http.Request, fallback string) (graphResponse, error) {
	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return graphResponse{}, fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return graphResponse{}, fmt.Errorf("%s: %w", fallback, err)
	}

	var out graphResponse
	decodeErr := json.Unmarshal(data, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && out.Error != nil) {
		gErr := &GraphError{StatusCode: resp.StatusCode, Message: fallback}
		if decodeErr == nil && out.Error != nil {
			gErr.Code = out.Error.Code
			gErr.Type = out.Error.Type
			if strings.TrimSpace(out.Error.Message) != "" {
				gErr.Message = out.Error.Message
			}
		}
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"path":   req.URL.Path,
			"code":   gErr.Code,
		}).Debugf("[GRAPH] request failed: %s", gErr.Message)
		return graphResponse{}, gErr
	}

	if decodeErr != nil {
		return graphResponse{}, fmt.Errorf("%s: invalid response body: %w", fallback, decodeErr)
	}
	return out, nil
}

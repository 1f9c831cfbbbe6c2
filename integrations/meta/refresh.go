package meta

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// TokenExchanger refreshes long-lived user tokens and derives the page token.
type TokenExchanger struct {
	graph     *GraphClient
	appID     string
	appSecret string
	pageID    string
}

func NewTokenExchanger(graph *GraphClient, appID, appSecret, pageID string) *TokenExchanger {
	return &TokenExchanger{graph: graph, appID: appID, appSecret: appSecret, pageID: pageID}
}

// CanExchange reports whether app credentials are configured.
func (e *TokenExchanger) CanExchange() bool {
	return strings.TrimSpace(e.appID) != "" && strings.TrimSpace(e.appSecret) != ""
}

// HasPage reports whether a page token can be derived.
func (e *TokenExchanger) HasPage() bool {
	return strings.TrimSpace(e.pageID) != ""
}

func (e *TokenExchanger) ExchangeLongLived(ctx context.Context, currentToken string) (string, int64, error) {
	if !e.CanExchange() {
		return "", 0, errors.New("META_APP_ID and META_APP_SECRET are required to refresh tokens")
	}

	query := url.Values{}
	query.Set("grant_type", "fb_exchange_token")
	query.Set("client_id", e.appID)
	query.Set("client_secret", e.appSecret)
	query.Set("fb_exchange_token", currentToken)

	resp, err := e.graph.get(ctx, "oauth/access_token", query, refreshFallbackMessage)
	if err != nil {
		return "", 0, err
	}
	if resp.AccessToken == "" {
		return "", 0, errors.New(refreshFallbackMessage)
	}
	return resp.AccessToken, resp.ExpiresIn, nil
}

func (e *TokenExchanger) PageAccessToken(ctx context.Context, userToken string) (string, error) {
	if strings.TrimSpace(e.pageID) == "" {
		return "", errors.New("FB_PAGE_ID is not configured")
	}

	query := url.Values{}
	query.Set("fields", "access_token")
	query.Set("access_token", userToken)

	resp, err := e.graph.get(ctx, e.pageID, query, refreshFallbackMessage)
	if err != nil {
		return "", fmt.Errorf("Could not fetch Facebook Page token: %w", err)
	}
	if resp.AccessToken == "" {
		return "", errors.New("Could not fetch Facebook Page token: " + refreshFallbackMessage)
	}
	return resp.AccessToken, nil
}

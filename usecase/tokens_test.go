package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_InstagramToken(t *testing.T) {
	store := newMemoryTokens()
	svc := NewTokenService(store, nil, TokenOptions{IGAccessToken: "env-ig"})

	token, err := svc.InstagramToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-ig", token)

	store.rows[domainToken.ProviderInstagram] = domainToken.APIToken{Provider: domainToken.ProviderInstagram, AccessToken: " db-ig "}
	token, err = svc.InstagramToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "db-ig", token)
}

func TestTokenService_MissingToken(t *testing.T) {
	svc := NewTokenService(newMemoryTokens(), nil, TokenOptions{})

	_, err := svc.InstagramToken(context.Background())
	assert.EqualError(t, err, "Missing Instagram access token. Set it in api_tokens table or environment variables.")

	_, err = svc.FacebookToken(context.Background())
	assert.EqualError(t, err, "Missing Facebook access token. Set it in api_tokens table or environment variables.")
}

func TestTokenService_FacebookTokenOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryTokens()
	opts := TokenOptions{IGAccessToken: "env-ig"}

	token, err := NewTokenService(store, nil, opts).FacebookToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "env-ig", token)

	store.rows[domainToken.ProviderInstagram] = domainToken.APIToken{AccessToken: "db-ig"}
	token, err = NewTokenService(store, nil, opts).FacebookToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db-ig", token)

	opts.FBAccessToken = "env-fb"
	token, err = NewTokenService(store, nil, opts).FacebookToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "env-fb", token)

	store.rows[domainToken.ProviderFacebook] = domainToken.APIToken{AccessToken: "db-fb"}
	token, err = NewTokenService(store, nil, opts).FacebookToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "db-fb", token)
}

func TestTokenService_RefreshWithoutAppCredentials(t *testing.T) {
	store := newMemoryTokens()
	svc := NewTokenService(store, &fakeExchanger{}, TokenOptions{IGAccessToken: "env-ig"})

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Refreshed)
	assert.Zero(t, store.saves)
}

func TestTokenService_RefreshStoresTokens(t *testing.T) {
	store := newMemoryTokens()
	exchanger := &fakeExchanger{canExchange: true, hasPage: true}
	svc := NewTokenService(store, exchanger, TokenOptions{IGAccessToken: "env-ig"}).(*tokenService)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	result, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "env-ig", exchanger.exchanged)
	assert.True(t, result.Refreshed)
	assert.True(t, result.PageTokenRefreshed)
	require.NotNil(t, result.ExpiresAt)
	assert.Equal(t, now.Add(time.Hour), *result.ExpiresAt)

	assert.Equal(t, "long-lived", store.rows[domainToken.ProviderInstagram].AccessToken)
	assert.Equal(t, "page-for-long-lived", store.rows[domainToken.ProviderFacebook].AccessToken)
}

func TestTokenService_RefreshPageTokenFailure(t *testing.T) {
	store := newMemoryTokens()
	exchanger := &fakeExchanger{canExchange: true, hasPage: true, pageErr: errors.New("Could not fetch Facebook Page token: denied")}
	svc := NewTokenService(store, exchanger, TokenOptions{IGAccessToken: "env-ig"})

	result, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, result.Refreshed)
	assert.False(t, result.PageTokenRefreshed)
	assert.Equal(t, "long-lived", store.rows[domainToken.ProviderInstagram].AccessToken)
	_, ok := store.rows[domainToken.ProviderFacebook]
	assert.False(t, ok)
}

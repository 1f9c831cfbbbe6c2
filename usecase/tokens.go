package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/sirupsen/logrus"
)

// TokenOptions holds the tokens configured in the environment.
type TokenOptions struct {
	IGAccessToken string
	FBAccessToken string
}

type tokenService struct {
	store     domainToken.ITokenStore
	exchanger domainToken.IGraphTokenExchanger
	opts      TokenOptions
	now       func() time.Time
}

func NewTokenService(store domainToken.ITokenStore, exchanger domainToken.IGraphTokenExchanger, opts TokenOptions) domainToken.ITokenUsecase {
	return &tokenService{store: store, exchanger: exchanger, opts: opts, now: time.Now}
}

func (s *tokenService) stored(ctx context.Context, provider domainToken.Provider) (string, error) {
	if s.store == nil {
		return "", nil
	}
	token, err := s.store.Get(ctx, provider)
	if err != nil {
		return "", fmt.Errorf("failed to read %s token: %w", provider, err)
	}
	if token == nil {
		return "", nil
	}
	return strings.TrimSpace(token.AccessToken), nil
}

// InstagramToken prefers the stored token over the configured one.
func (s *tokenService) InstagramToken(ctx context.Context) (string, error) {
	token, err := s.stored(ctx, domainToken.ProviderInstagram)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	if s.opts.IGAccessToken != "" {
		return s.opts.IGAccessToken, nil
	}
	return "", missingToken("Instagram access token")
}

// FacebookToken resolves the page token, falling back to the Instagram user
// token which can also publish to a page it manages.
func (s *tokenService) FacebookToken(ctx context.Context) (string, error) {
	token, err := s.stored(ctx, domainToken.ProviderFacebook)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	if s.opts.FBAccessToken != "" {
		return s.opts.FBAccessToken, nil
	}

	token, err = s.stored(ctx, domainToken.ProviderInstagram)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}
	if s.opts.IGAccessToken != "" {
		return s.opts.IGAccessToken, nil
	}
	return "", missingToken("Facebook access token")
}

func missingToken(name string) error {
	return fmt.Errorf("Missing %s. Set it in api_tokens table or environment variables.", name)
}

// Refresh exchanges the current Instagram token for a new long-lived one and
// derives the page token from it. Without app credentials it does nothing.
func (s *tokenService) Refresh(ctx context.Context) (domainToken.RefreshResult, error) {
	if s.exchanger == nil || !s.exchanger.CanExchange() {
		logrus.Info("[TOKENS] app credentials not configured, refresh skipped")
		return domainToken.RefreshResult{}, nil
	}

	current, err := s.InstagramToken(ctx)
	if err != nil {
		return domainToken.RefreshResult{}, err
	}

	accessToken, expiresIn, err := s.exchanger.ExchangeLongLived(ctx, current)
	if err != nil {
		return domainToken.RefreshResult{}, err
	}

	now := s.now().UTC()
	var expiresAt *time.Time
	if expiresIn > 0 {
		at := now.Add(time.Duration(expiresIn) * time.Second)
		expiresAt = &at
	}

	if err := s.store.Save(ctx, domainToken.APIToken{
		Provider:    domainToken.ProviderInstagram,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		UpdatedAt:   now,
	}); err != nil {
		return domainToken.RefreshResult{}, fmt.Errorf("failed to store instagram token: %w", err)
	}

	result := domainToken.RefreshResult{Refreshed: true, ExpiresAt: expiresAt}

	if s.exchanger.HasPage() {
		pageToken, err := s.exchanger.PageAccessToken(ctx, accessToken)
		if err != nil {
			return result, err
		}
		if err := s.store.Save(ctx, domainToken.APIToken{
			Provider:    domainToken.ProviderFacebook,
			AccessToken: pageToken,
			UpdatedAt:   now,
		}); err != nil {
			return result, fmt.Errorf("failed to store facebook token: %w", err)
		}
		result.PageTokenRefreshed = true
	}

	logrus.WithField("page_token", result.PageTokenRefreshed).Info("[TOKENS] tokens refreshed")
	return result, nil
}

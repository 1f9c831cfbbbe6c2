package token

import (
	"context"
	"time"
)

type Provider string

const (
	ProviderInstagram Provider = "instagram"
	ProviderFacebook  Provider = "facebook"
)

// APIToken is a platform access token persisted by the refresh flow.
type APIToken struct {
	Provider    Provider   `json:"provider"`
	AccessToken string     `json:"-"`
	ExpiresAt   *time.Time `json:"expires_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RefreshResult summarises one refresh run.
type RefreshResult struct {
	Refreshed          bool       `json:"refreshed"`
	ExpiresAt          *time.Time `json:"expires_at"`
	PageTokenRefreshed bool       `json:"page_token_refreshed"`
}

type ITokenStore interface {
	Get(ctx context.Context, provider Provider) (*APIToken, error)
	Save(ctx context.Context, token APIToken) error
}

// ITokenResolver returns the token a platform client should use right now.
type ITokenResolver interface {
	InstagramToken(ctx context.Context) (string, error)
	FacebookToken(ctx context.Context) (string, error)
}

// IGraphTokenExchanger talks to the token endpoints of the Graph API.
type IGraphTokenExchanger interface {
	CanExchange() bool
	HasPage() bool
	ExchangeLongLived(ctx context.Context, currentToken string) (accessToken string, expiresIn int64, err error)
	PageAccessToken(ctx context.Context, userToken string) (string, error)
}

type ITokenUsecase interface {
	ITokenResolver
	Refresh(ctx context.Context) (RefreshResult, error)
}

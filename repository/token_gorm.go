package repository

import (
	"context"
	"errors"
	"time"

	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/AzielCF/daily-post/pkg/crypto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tokenModel struct {
	Provider    string     `gorm:"primaryKey;column:provider"`
	AccessToken string     `gorm:"column:access_token;type:text;not null"` // Encrypted
	ExpiresAt   *time.Time `gorm:"column:expires_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"`
}

func (tokenModel) TableName() string {
	return "api_tokens"
}

type TokenGormRepository struct {
	db     *gorm.DB
	cipher *crypto.Cipher
}

func NewTokenGormRepository(db *gorm.DB, cipher *crypto.Cipher) *TokenGormRepository {
	return &TokenGormRepository{db: db, cipher: cipher}
}

func (r *TokenGormRepository) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&tokenModel{})
}

// Get returns nil when no token is stored for the provider.
func (r *TokenGormRepository) Get(ctx context.Context, provider domainToken.Provider) (*domainToken.APIToken, error) {
	var m tokenModel
	if err := r.db.WithContext(ctx).First(&m, "provider = ?", string(provider)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	plain, err := r.cipher.Decrypt(m.AccessToken)
	if err != nil {
		return nil, err
	}

	return &domainToken.APIToken{
		Provider:    domainToken.Provider(m.Provider),
		AccessToken: plain,
		ExpiresAt:   m.ExpiresAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func (r *TokenGormRepository) Save(ctx context.Context, token domainToken.APIToken) error {
	sealed, err := r.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return err
	}

	updatedAt := token.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	m := tokenModel{
		Provider:    string(token.Provider),
		AccessToken: sealed,
		ExpiresAt:   token.ExpiresAt,
		UpdatedAt:   updatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "expires_at", "updated_at"}),
	}).Create(&m).Error
}

package middleware

import (
	"crypto/subtle"
	"strings"

	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

const unauthorizedMessage = "Missing or invalid bearer token"

// BearerAuth accepts any of the given secrets as a bearer token. When enforce
// is false every request passes.
func BearerAuth(enforce bool, secrets ...string) fiber.Handler {
	accepted := make([][]byte, 0, len(secrets))
	for _, secret := range secrets {
		if secret = strings.TrimSpace(secret); secret != "" {
			accepted = append(accepted, []byte(secret))
		}
	}

	return keyauth.New(keyauth.Config{
		Next: func(c *fiber.Ctx) bool {
			return !enforce || c.Method() == fiber.MethodOptions
		},
		KeyLookup:  "header:" + fiber.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			for _, secret := range accepted {
				if subtle.ConstantTimeCompare([]byte(key), secret) == 1 {
					return true, nil
				}
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			err := pkgError.UnauthorizedError(unauthorizedMessage)
			return c.Status(err.StatusCode()).JSON(utils.ResponseData{
				Status:  err.StatusCode(),
				Code:    err.ErrCode(),
				Message: err.Error(),
			})
		},
	})
}

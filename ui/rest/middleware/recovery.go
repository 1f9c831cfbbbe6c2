package middleware

import (
	"errors"
	"fmt"

	pkgError "github.com/AzielCF/daily-post/pkg/error"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			var generic pkgError.GenericError = pkgError.InternalServerError(fmt.Sprintf("%v", recovered))
			if err, ok := recovered.(error); ok {
				errors.As(err, &generic)
			}

			res := utils.ResponseData{
				Status:  generic.StatusCode(),
				Code:    generic.ErrCode(),
				Message: generic.Error(),
			}

			if res.Status >= fiber.StatusInternalServerError {
				logrus.WithField("path", ctx.Path()).Errorf("[REST] Panic recovered in middleware: %v", recovered)
			} else {
				logrus.WithField("path", ctx.Path()).Debugf("[REST] %s: %s", res.Code, res.Message)
			}

			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}

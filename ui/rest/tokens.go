package rest

import (
	domainToken "github.com/AzielCF/daily-post/domains/token"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Tokens struct {
	Service domainToken.ITokenUsecase
}

func InitRestTokens(app fiber.Router, service domainToken.ITokenUsecase) Tokens {
	rest := Tokens{Service: service}
	app.Post("/tokens/refresh", rest.Refresh)
	return rest
}

func (controller *Tokens) Refresh(c *fiber.Ctx) error {
	result, err := controller.Service.Refresh(c.UserContext())
	utils.PanicIfNeeded(err)

	message := "Meta app credentials not configured, nothing refreshed"
	if result.Refreshed {
		message = "Success refresh Meta tokens"
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: result,
	})
}

package rest

import (
	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
)

type Preview struct {
	Service domainPublish.IPreviewUsecase
}

func InitRestPreview(app fiber.Router, service domainPublish.IPreviewUsecase) Preview {
	rest := Preview{Service: service}
	app.Get("/schedule/preview", rest.Get)
	return rest
}

func (controller *Preview) Get(c *fiber.Ctx) error {
	preview, err := controller.Service.Preview(c.UserContext(), fiberUtils.CopyString(c.Query("date")))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success build schedule preview",
		Results: preview,
	})
}

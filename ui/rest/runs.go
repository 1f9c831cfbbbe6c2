package rest

import (
	"strings"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/timeutils"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
)

type Runs struct {
	Service domainPublish.IRunsUsecase
}

func InitRestRuns(app fiber.Router, service domainPublish.IRunsUsecase) Runs {
	rest := Runs{Service: service}
	app.Get("/publish-runs", rest.List)
	app.Delete("/publish-runs", rest.Delete)
	return rest
}

func (controller *Runs) List(c *fiber.Ctx) error {
	runs, err := controller.Service.List(c.UserContext(), c.QueryInt("limit", 30))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch publish runs",
		Results: fiber.Map{"runs": runs},
	})
}

func (controller *Runs) Delete(c *fiber.Ctx) error {
	if utils.ParseBool(c.Query("all")) {
		count, err := controller.Service.DeleteAll(c.UserContext())
		utils.PanicIfNeeded(err)

		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: "Success delete all publish runs",
			Results: fiber.Map{"ok": true, "deleted_count": count},
		})
	}

	// Query values alias the request buffer; the run date outlives the handler.
	runDate := strings.TrimSpace(fiberUtils.CopyString(c.Query("date")))
	if !timeutils.IsRunDate(runDate) {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
			Status:  fiber.StatusBadRequest,
			Code:    "INVALID_DATE",
			Message: "Query param `date` must be YYYY-MM-DD",
		})
	}

	deleted, err := controller.Service.Delete(c.UserContext(), runDate)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success delete publish run",
		Results: fiber.Map{"ok": true, "run_date": runDate, "deleted": deleted},
	})
}

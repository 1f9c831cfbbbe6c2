package rest

import (
	"strings"

	domainPublish "github.com/AzielCF/daily-post/domains/publish"
	"github.com/AzielCF/daily-post/pkg/utils"
	"github.com/AzielCF/daily-post/validations"
	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
)

type Publish struct {
	Service  domainPublish.IPublishUsecase
	Schedule domainPublish.IScheduleUsecase
	DryRun   bool
}

func InitRestPublish(app fiber.Router, service domainPublish.IPublishUsecase, schedule domainPublish.IScheduleUsecase, dryRun bool) Publish {
	rest := Publish{Service: service, Schedule: schedule, DryRun: dryRun}
	app.Get("/cron/daily", rest.CronDaily)
	app.Post("/cron/daily", rest.CronDaily)
	app.Post("/publish-now", rest.PublishNow)

	// Queue based publishing was replaced by the daily schedule.
	app.All("/queue", rest.Deprecated)
	app.All("/cron/queue-today", rest.Deprecated)
	return rest
}

func (controller *Publish) CronDaily(c *fiber.Ctx) error {
	tick, err := controller.Schedule.Tick(c.UserContext())
	utils.PanicIfNeeded(err)

	decision := tick.Decision
	if !decision.ShouldRun || tick.Result == nil {
		reason := decision.Reason
		if tick.Skipped != "" {
			reason = tick.Skipped
		}
		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: reason,
			Results: fiber.Map{
				"ok":        true,
				"skipped":   true,
				"dry_run":   controller.DryRun,
				"reason":    reason,
				"weekday":   decision.Weekday,
				"localHour": decision.LocalHour,
				"date":      decision.RunDate,
			},
		})
	}

	result := tick.Result
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: result.Reason,
		Results: fiber.Map{
			"ok":      true,
			"skipped": result.Status == domainPublish.StatusSkipped,
			"dry_run": controller.DryRun,
			"reason":  result.Reason,
			"publish": result,
		},
	})
}

func (controller *Publish) PublishNow(c *fiber.Ctx) error {
	request := validations.PublishRequest{
		RunDate: strings.TrimSpace(fiberUtils.CopyString(c.Query("date"))),
		Force:   utils.ParseBool(c.Query("force")),
	}
	if err := validations.ValidatePublishRequest(c.UserContext(), request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ResponseData{
			Status:  fiber.StatusBadRequest,
			Code:    "INVALID_DATE",
			Message: "Invalid date format. Use YYYY-MM-DD.",
		})
	}

	result, err := controller.Service.Run(c.UserContext(), domainPublish.RunRequest{
		RunDate: request.RunDate,
		Force:   request.Force,
		Mode:    domainPublish.ModeManual,
	})
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: result.Reason,
		Results: fiber.Map{
			"ok":      result.Status != domainPublish.StatusFailed,
			"dry_run": controller.DryRun,
			"result":  result,
		},
	})
}

func (controller *Publish) Deprecated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusGone).JSON(utils.ResponseData{
		Status:  fiber.StatusGone,
		Code:    "DEPRECATED_ENDPOINT",
		Message: "Queue publishing is no longer supported. Use /api/cron/daily or /api/publish-now.",
	})
}

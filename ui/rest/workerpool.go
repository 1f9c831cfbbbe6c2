package rest

import (
	"github.com/AzielCF/daily-post/pkg/msgworker"
	"github.com/gofiber/fiber/v2"
)

type WorkerPool struct {
	Pool *msgworker.Pool
}

func InitRestWorkerPool(app fiber.Router, pool *msgworker.Pool) WorkerPool {
	rest := WorkerPool{Pool: pool}
	app.Get("/alerts/pool/stats", rest.GetStats)
	return rest
}

// GetStats returns real-time statistics of the alert worker pool.
func (controller *WorkerPool) GetStats(c *fiber.Ctx) error {
	if controller.Pool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Alert worker pool not initialized",
		})
	}
	return c.JSON(controller.Pool.GetStats())
}

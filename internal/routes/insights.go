package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/transops/transops/internal/advisor"
	"github.com/transops/transops/internal/dashboard"
	"github.com/transops/transops/internal/performance"
)

// RegisterInsightRoutes wires the dashboard, performance and advisor endpoints.
func RegisterInsightRoutes(r fiber.Router, dash *dashboard.Handler, perf *performance.Handler, adv *advisor.Handler) {
	r.Get("/dashboard/stats", dash.Stats)
	r.Get("/performance", perf.Get)
	r.Post("/ai/route-optimize", adv.Optimize)
}

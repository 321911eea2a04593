package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/internal/store"
)

// Server is the optional ops surface: /health and /metrics on a side port.
// The dashboard itself stays on the terminal; this exists for probes and
// scrapers when the tracker runs long-lived on a box.
type Server struct {
	logger *zap.Logger
	app    *fiber.App
	port   int
}

func New(logger *zap.Logger, port int, nc *nats.Conn, st store.Store) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{}
		status := "ok"
		code := fiber.StatusOK

		if nc != nil {
			checks["nats"] = "ok"
			if !nc.IsConnected() {
				checks["nats"] = "disconnected"
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		if st != nil {
			checks["store"] = "ok"
			healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := st.HealthCheck(healthCtx); err != nil {
				checks["store"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	return &Server{logger: logger, app: app, port: port}
}

// Start listens in a background goroutine. Listen errors are logged, not
// fatal; the dashboard keeps running without the ops port.
func (s *Server) Start() {
	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", s.port)); err != nil {
			s.logger.Error("ops.listen_failed", zap.Int("port", s.port), zap.Error(err))
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

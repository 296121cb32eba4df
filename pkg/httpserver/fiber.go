package httpserver

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Options holds the server timeouts, in seconds; zero disables a timeout.
type Options struct {
	AppName      string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

func InitFiberServer(opts Options) *fiber.App {
	s := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           seconds(opts.ReadTimeout),
		WriteTimeout:          seconds(opts.WriteTimeout),
		IdleTimeout:           seconds(opts.IdleTimeout),
		DisableStartupMessage: true,
	})

	s.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	s.Use(cors.New())
	s.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/manage/health",
		ReadinessEndpoint: "/manage/ready",
	}))

	return s
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/vending-fleet/pkg/config"
)

// NewCORS creates a CORS middleware from application config. The API is
// read-only, so only GET and OPTIONS are allowed.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	allowedOrigins := "*"
	if len(cfg.AllowedOrigins) > 0 {
		allowedOrigins = strings.Join(cfg.AllowedOrigins, ",")
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
		MaxAge:       86400, // 24 hours
	})
}

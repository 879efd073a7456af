package logger

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

// FromContext retrieves the logger from the context
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromFiber retrieves the request-scoped logger set by Middleware
func FromFiber(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(localsKey).(*zap.Logger); ok {
		return l
	}
	return GetLogger()
}

// Context returns the request's user context carrying the request logger.
func Context(c *fiber.Ctx) context.Context {
	return WithContext(c.UserContext(), FromFiber(c))
}

// SetFiber replaces the request-scoped logger for the rest of the chain.
func SetFiber(c *fiber.Ctx, l *zap.Logger) {
	c.Locals(localsKey, l)
}

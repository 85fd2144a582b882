package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	// Create handler options
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Create handler based on environment
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		// Use text handler for development (more readable)
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		// Use JSON handler for production (structured)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithSessionID adds the customer session ID to logger context
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogHoldCreated logs when a seat hold is granted
func (l *Logger) LogHoldCreated(ctx context.Context, holdID, showtimeID, sessionID string, seatCount int) {
	l.Logger.InfoContext(ctx,
		"Hold Created",
		slog.String("hold_id", holdID),
		slog.String("showtime_id", showtimeID),
		slog.String("session_id", sessionID),
		slog.Int("seat_count", seatCount),
	)
}

// LogHoldReleased logs when a hold's seats return to the pool
func (l *Logger) LogHoldReleased(ctx context.Context, holdID, showtimeID, reason string) {
	l.Logger.InfoContext(ctx,
		"Hold Released",
		slog.String("hold_id", holdID),
		slog.String("showtime_id", showtimeID),
		slog.String("reason", reason),
	)
}

// LogHoldConverted logs when a hold becomes a confirmed booking
func (l *Logger) LogHoldConverted(ctx context.Context, holdID, showtimeID, bookingID string) {
	l.Logger.InfoContext(ctx,
		"Hold Converted",
		slog.String("hold_id", holdID),
		slog.String("showtime_id", showtimeID),
		slog.String("booking_id", bookingID),
	)
}

// LogBookingConfirmed logs a successful booking confirmation
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingID, showtimeID string, amount float64) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_id", bookingID),
		slog.String("showtime_id", showtimeID),
		slog.Float64("amount", amount),
	)
}

// LogBookingFailed logs a failed booking attempt
func (l *Logger) LogBookingFailed(ctx context.Context, bookingID, showtimeID, reason string) {
	l.Logger.WarnContext(ctx,
		"Booking Failed",
		slog.String("booking_id", bookingID),
		slog.String("showtime_id", showtimeID),
		slog.String("reason", reason),
	)
}

// LogPaymentResult logs the outcome of an external payment call
func (l *Logger) LogPaymentResult(ctx context.Context, bookingID string, amount float64, outcome string, duration time.Duration) {
	l.Logger.InfoContext(ctx,
		"Payment Result",
		slog.String("booking_id", bookingID),
		slog.Float64("amount", amount),
		slog.String("outcome", outcome),
		slog.Duration("duration", duration),
	)
}

// LogTicketIssued logs ticket artifact generation
func (l *Logger) LogTicketIssued(ctx context.Context, bookingID string) {
	l.Logger.InfoContext(ctx,
		"Ticket Issued",
		slog.String("booking_id", bookingID),
	)
}

// LogRateLimitExceeded logs rate limit exceeded
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Helper methods for common patterns

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.InfoContext(ctx, msg, args...)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

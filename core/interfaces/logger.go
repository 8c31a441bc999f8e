package interfaces

// Logger defines the interface for logging throughout the application.
// This abstraction allows for different logging implementations (logrus, zap, etc.)
// while maintaining a consistent interface.
//
// Example usage:
//
//	logger.Info("Reading session started", map[string]interface{}{
//		"units":    42,
//		"language": "fr-FR",
//	})
//
//	logger.Warn("Recognition error", map[string]interface{}{
//		"kind": "network",
//	})
type Logger interface {
	// Debug is used for engine chatter such as restarts and swallowed errors
	Debug(msg string, fields map[string]interface{})

	// Info marks session boundaries
	Info(msg string, fields map[string]interface{})

	// Warn reports failures the user is also notified about
	Warn(msg string, fields map[string]interface{})

	// Error reports failures that need operator attention
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards every message. Core services fall back to it when no
// logger is configured.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

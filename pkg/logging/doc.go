// Package logging provides structured logging for storefront with a
// subsystem tag on every entry.
//
// The package is a thin wrapper over Go's standard slog package. All log
// entries carry a subsystem identifier (Bootstrap, SessionStore, AuthRelay,
// CommerceProxy, Tools, ...) so that output can be filtered per component.
//
// Usage:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Error("SessionStore", err, "Failed to reach redis")
package logging

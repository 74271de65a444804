package logger

import "log/slog"

// Nop returns a logger that discards everything. Useful as a default when
// a component receives no logger.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

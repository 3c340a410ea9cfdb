// Package logging assembles the structured slog loggers used by the epublang
// command.
//
// It owns the console and JSON handlers and the level parsing shared by every
// subcommand. The library package itself only ever receives a *slog.Logger.
package logging

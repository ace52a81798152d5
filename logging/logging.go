package logging

import (
	"io"
	"log/slog"
	"os"

	"globeviewer/config"
)

// Setup returns a logger for env writing to stdout
func Setup(env string) *slog.Logger {
	return New(os.Stdout, env)
}

// New builds the logger for env. Local runs get debug text output with
// source locations; development and production log JSON at info and warn.
// An unknown env logs errors only and says so.
func New(w io.Writer, env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	case config.EnvProd:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       slog.LevelWarn,
			ReplaceAttr: dropTime,
		}))
	default:
		log = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))
		log.Error("The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"cargolens/internal/app"
)

func main() {
	port := flag.Int("port", 0, "listen port (overrides CARGOLENS_SERVER_PORT)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	// Flags win over environment and config file, so route them through
	// the same envconfig layer the rest of the configuration uses.
	if *port != 0 {
		os.Setenv("CARGOLENS_SERVER_PORT", strconv.Itoa(*port))
	}
	if *logLevel != "" {
		os.Setenv("CARGOLENS_LOGGING_LEVEL", *logLevel)
	}

	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

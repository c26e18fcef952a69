// Command transrural is the operations console: login, ticket sales,
// departure management and the driver's trip view, all against the
// TransRural API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"transrural/internal/api"
	"transrural/internal/config"
	"transrural/internal/session"
	"transrural/internal/ui"
	"transrural/pkg/logger"
)

func main() {
	cfg := config.Load()

	apiURL := pflag.String("api-url", cfg.APIBaseURL, "base URL of the TransRural API")
	docsDir := pflag.String("docs-dir", ".", "directory for generated PDF documents")
	logLevel := pflag.String("log-level", cfg.LoggerLevel, "log level (debug, info, warn, error)")
	pflag.Parse()

	// Logs go to a file: bubbletea owns the terminal.
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "no se pudo crear el directorio de logs: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewWithOutput(cfg.ServiceName, *logLevel, cfg.LogFile)

	client := api.New(*apiURL, cfg.HTTPTimeout, log)
	gate := session.NewGate(client, session.NewStore(cfg.SessionFile), log)

	log.Info("console starting", logger.String("api_url", *apiURL))

	app := ui.New(client, gate, *docsDir, log)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

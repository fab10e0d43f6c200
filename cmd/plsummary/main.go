// cmd/plsummary/main.go
package main

import (
	"log"

	"github.com/mwiater/plsummary/internal/appconfig"
	cmd "github.com/mwiater/plsummary/internal/cli"
	"github.com/mwiater/plsummary/internal/logging"
)

// Seams so the wiring can be exercised in tests.
var (
	loadConfig   = appconfig.Load
	initLogging  = logging.Init
	closeLogging = logging.Close
	executeCmd   = cmd.Execute
)

func main() {
	cfg, err := loadConfig("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := initLogging(cfg.LogFile); err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer func() {
		_ = closeLogging()
	}()

	executeCmd()
}

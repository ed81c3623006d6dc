// Package app wires configuration into the components a run needs. Both the
// HTTP server and the CLI build their pipeline here.
package app

import (
	"fmt"
	"log/slog"

	"github.com/ashureev/sproc-lineage/internal/agent"
	"github.com/ashureev/sproc-lineage/internal/catalog"
	"github.com/ashureev/sproc-lineage/internal/config"
	"github.com/ashureev/sproc-lineage/internal/definition"
	"github.com/ashureev/sproc-lineage/internal/interaction"
	"github.com/ashureev/sproc-lineage/internal/store"
)

// App holds the wired pipeline and the resources that need closing.
type App struct {
	Controller *interaction.Controller
	Audit      store.Repository
	Dialect    catalog.Dialect
}

// New builds the pipeline from cfg. The caller must Close the returned App.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	var audit store.Repository = store.Nop{}
	if cfg.Audit.Enabled {
		sqlite, err := store.NewSQLite(cfg.Audit.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
		audit = sqlite
	}

	connector, err := catalog.NewConnector(cfg.Database, logger)
	if err != nil {
		_ = audit.Close()
		return nil, fmt.Errorf("configure catalog connection: %w", err)
	}

	client, err := agent.NewAzureClient(cfg.Model, logger)
	if err != nil {
		_ = audit.Close()
		return nil, fmt.Errorf("configure model client: %w", err)
	}

	controller := interaction.NewController(interaction.Deps{
		Connector: connector,
		Reader:    catalog.NewReader(connector.Dialect(), logger),
		Store:     definition.NewFileStore(cfg.OutputDir),
		Analyzer:  agent.NewAnalyzer(client, logger),
		Recorder:  audit,
	})

	return &App{
		Controller: controller,
		Audit:      audit,
		Dialect:    connector.Dialect(),
	}, nil
}

// Close releases the audit log.
func (a *App) Close() error {
	return a.Audit.Close()
}

package app

import (
	"fmt"
	"os"
	"time"

	"petmed-go/internal/config"
	"petmed-go/internal/database"
	"petmed-go/internal/petmed"
	"petmed-go/internal/remote"
)

// App is the application layer between the CLI and the petmed service.
// It constructs all dependencies from config, runs the bootstrap sequence
// before exposing any repository, and manages the store lifecycle on Close.
type App struct {
	cfg     *config.Config
	store   *database.RecordStore
	service *petmed.Service
	logFile *os.File
}

// New creates a fully wired App from the given config. operation identifies
// the CLI command being run (e.g. "RegisterPet", "ComparePrices"); it tags
// every log line of this invocation. The caller must call Close when done.
//
// InitializeAll completes synchronously before any repository is handed out,
// so callers never need to wait for table creation themselves.
func New(cfg *config.Config, operation string) (*App, error) {
	if cfg.Database.Type == "sqlite" && cfg.Database.DataDir != "" {
		if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	store, err := database.NewRecordStoreFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating record store: %w", err)
	}

	if err := database.InitializeAll(store); err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	lg := &slogAdapter{l: logger}

	clock := petmed.RealClock{}
	pets := database.NewPetRepository(store, clock)
	medicines := database.NewMedicineRepository(store, clock)
	stores := database.NewStoreRepository(store, clock)
	assocs := database.NewAssociationRepository(store, clock)
	catalog := remote.NewClientFromConfig(cfg.Catalog, cfg.Prices, lg)

	svc := petmed.NewService(pets, medicines, stores, assocs, catalog, lg, clock)

	return &App{
		cfg:     cfg,
		store:   store,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service returns the orchestration layer.
func (a *App) Service() *petmed.Service { return a.service }

// CheckSchema reports whether the store schema matches the binary.
func (a *App) CheckSchema() error {
	return database.CheckSchema(a.store)
}

// StorePath returns the record store's database path.
func (a *App) StorePath() string { return a.store.Path() }

// Close releases the record store and the log file.
func (a *App) Close() error {
	err := a.store.Close()
	if a.logFile != nil {
		a.logFile.Close()
	}
	return err
}

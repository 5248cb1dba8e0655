package client

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/adapter"
	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/crypto"
	"github.com/MKhiriev/go-sync-engine/internal/engine"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/models"
)

// App assembles and runs the sync daemon: one engine loop, one worker and
// local model per configured data type, and a background job that drives
// poll and commit cycles against the server.
type App struct {
	cfg        config.Client
	adapter    adapter.ServerAdapter
	loop       *scheduler.Loop
	nudger     *scheduler.CommitNudger
	job        *scheduler.Job
	workers    map[models.ModelType]*engine.ModelTypeWorker
	processors map[models.ModelType]*journalProcessor

	// keybag is the currently installed key set; touched only from the
	// engine loop after construction.
	keybag *crypto.Keybag

	logger *logger.Logger
}

// NewApp wires the daemon from configuration. The encryption key is derived
// from the passphrase with a salt bound to the account id, so the same
// account decrypts its data on every device.
func NewApp(cfg config.Client, log *logger.Logger) (*App, error) {
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("%w: server address is required", config.ErrInvalidClientConfigs)
	}
	if cfg.AccountID == "" {
		return nil, fmt.Errorf("%w: account id is required", config.ErrInvalidClientConfigs)
	}
	if cfg.Passphrase == "" {
		return nil, fmt.Errorf("%w: passphrase is required", config.ErrInvalidClientConfigs)
	}
	if len(cfg.ModelTypes) == 0 {
		return nil, fmt.Errorf("%w: at least one model type is required", config.ErrInvalidClientConfigs)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.ServerAddress, cfg.RequestTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	keybag, err := accountKeybag(cfg.Passphrase, cfg.AccountID)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	loop := scheduler.NewLoop(0, log)
	nudger := scheduler.NewCommitNudger()

	workers := make(map[models.ModelType]*engine.ModelTypeWorker, len(cfg.ModelTypes))
	processors := make(map[models.ModelType]*journalProcessor, len(cfg.ModelTypes))
	ordered := make([]*engine.ModelTypeWorker, 0, len(cfg.ModelTypes))
	for _, name := range cfg.ModelTypes {
		modelType := models.ModelType(name)
		if _, ok := workers[modelType]; ok {
			continue
		}
		processor := newJournalProcessor(modelType, log)
		worker := engine.NewModelTypeWorker(modelType, keybag, processor, nudger, log)
		workers[modelType] = worker
		processors[modelType] = processor
		ordered = append(ordered, worker)
	}

	return &App{
		cfg:        cfg,
		adapter:    serverAdapter,
		loop:       loop,
		nudger:     nudger,
		job:        scheduler.NewJob(loop, serverAdapter, ordered, nudger, cfg.MaxCommitEntries, log),
		workers:    workers,
		processors: processors,
		keybag:     keybag,
		logger:     log,
	}, nil
}

// Run authenticates against the server and drives sync cycles until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.adapter.Authenticate(ctx, a.cfg.AccountID, a.cfg.AccountSecret); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	a.logger.Info().Str("account_id", a.cfg.AccountID).Msg("authenticated")

	a.job.Start(ctx, a.cfg.PollInterval)

	<-ctx.Done()

	a.job.Stop()
	a.loop.Stop()
	a.logger.Info().Msg("sync daemon stopped")
	return nil
}

// Put records a local create-or-update for clientTag and hands it to the
// engine. The mutation lands in the journal immediately, so snapshots see it
// and a later edit of the same tag commits against the version the server
// acked in between.
func (a *App) Put(modelType models.ModelType, clientTag string, value json.RawMessage) error {
	worker, ok := a.workers[modelType]
	if !ok {
		return fmt.Errorf("model type %q is not configured", modelType)
	}
	processor := a.processors[modelType]

	return a.loop.PostWait(func() {
		baseVersion := processor.applyLocalPut(clientTag, value)
		worker.EnqueueForCommit([]models.CommitRequestData{{
			ClientTag:   clientTag,
			BaseVersion: baseVersion,
			Specifics:   value,
		}})
	})
}

// Delete records a local deletion for clientTag and hands it to the engine.
func (a *App) Delete(modelType models.ModelType, clientTag string) error {
	worker, ok := a.workers[modelType]
	if !ok {
		return fmt.Errorf("model type %q is not configured", modelType)
	}
	processor := a.processors[modelType]

	return a.loop.PostWait(func() {
		baseVersion := processor.applyLocalDelete(clientTag)
		worker.EnqueueForCommit([]models.CommitRequestData{{
			ClientTag:   clientTag,
			BaseVersion: baseVersion,
			Deleted:     true,
		}})
	})
}

// Snapshot returns a copy of the local state for modelType.
func (a *App) Snapshot(modelType models.ModelType) (map[string]LocalEntity, error) {
	processor, ok := a.processors[modelType]
	if !ok {
		return nil, fmt.Errorf("model type %q is not configured", modelType)
	}

	var snapshot map[string]LocalEntity
	if err := a.loop.PostWait(func() { snapshot = processor.Entities() }); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RotateKey derives a new key from passphrase and installs it on every
// worker alongside the keys already held, so previously sealed data stays
// readable while new commits use the new key.
func (a *App) RotateKey(passphrase string) error {
	salt := sha256.Sum256([]byte("sync-engine-salt:" + a.cfg.AccountID))
	key := crypto.DeriveKey(passphrase, salt[:16])

	return a.loop.PostWait(func() {
		keybag, err := a.keybag.WithKey(key)
		if err != nil {
			a.logger.Error().Err(err).Msg("key rotation failed")
			return
		}
		a.keybag = keybag
		for _, worker := range a.workers {
			worker.UpdateCryptographer(keybag)
		}
	})
}

// accountKeybag derives the account's symmetric key from the passphrase.
// The Argon2id salt is bound to the account id so every device of the same
// account derives the same key.
func accountKeybag(passphrase, accountID string) (*crypto.Keybag, error) {
	salt := sha256.Sum256([]byte("sync-engine-salt:" + accountID))
	key := crypto.DeriveKey(passphrase, salt[:16])
	return crypto.NewKeybag().WithKey(key)
}

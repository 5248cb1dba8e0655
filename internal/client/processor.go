package client

import (
	"encoding/json"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/models"
)

// LocalEntity is one synced item as the daemon's local model sees it.
type LocalEntity struct {
	ClientTag string
	ServerID  string
	Version   int64
	Deleted   bool
	Value     json.RawMessage
}

// journalProcessor is the in-process local model for one data type. It keeps
// the latest applied state per client tag and records commit verdicts.
//
// Every method is invoked on the engine loop goroutine, so the maps need no
// locking.
type journalProcessor struct {
	modelType models.ModelType
	entities  map[string]LocalEntity
	logger    *logger.Logger
}

func newJournalProcessor(modelType models.ModelType, log *logger.Logger) *journalProcessor {
	return &journalProcessor{
		modelType: modelType,
		entities:  make(map[string]LocalEntity),
		logger:    log.WithType(modelType.String()),
	}
}

// applyLocalPut stores a local create-or-update optimistically, so the entry
// is visible to snapshots and later mutations before the server acknowledges
// it. Returns the base version for the commit request: the version the entry
// held before this mutation, 0 for a fresh entry.
func (p *journalProcessor) applyLocalPut(clientTag string, value json.RawMessage) int64 {
	entity, ok := p.entities[clientTag]
	if !ok {
		entity = LocalEntity{ClientTag: clientTag}
	}
	entity.Value = value
	entity.Deleted = false
	p.entities[clientTag] = entity
	return entity.Version
}

// applyLocalDelete removes the entry optimistically and returns the base
// version for the tombstone commit.
func (p *journalProcessor) applyLocalDelete(clientTag string) int64 {
	entity, ok := p.entities[clientTag]
	if !ok {
		return 0
	}
	delete(p.entities, clientTag)
	return entity.Version
}

func (p *journalProcessor) ApplyUpdates(updates []models.UpdateResponseData, initial bool) {
	for _, update := range updates {
		entity := update.Entity
		if entity.Deleted {
			delete(p.entities, entity.ClientTag)
			continue
		}
		p.entities[entity.ClientTag] = LocalEntity{
			ClientTag: entity.ClientTag,
			ServerID:  entity.ServerID,
			Version:   entity.Version,
			Deleted:   entity.Deleted,
			Value:     entity.Specifics.Value,
		}
	}

	if initial {
		p.logger.Info().Int("count", len(updates)).Msg("initial data downloaded")
		return
	}
	p.logger.Debug().Int("count", len(updates)).Msg("applied server updates")
}

// OnCommitSuccess records the server-assigned version on the journal entry,
// so the next mutation of the same tag commits against the acked version.
// A missing entry means the ack is for a tombstone, or the entry was deleted
// locally while the commit was in flight; either way there is no version to
// record.
func (p *journalProcessor) OnCommitSuccess(clientTag string, version int64) {
	if entity, ok := p.entities[clientTag]; ok {
		entity.Version = version
		p.entities[clientTag] = entity
	}
	p.logger.Debug().Str("client_tag", clientTag).Int64("version", version).Msg("commit acknowledged")
}

func (p *journalProcessor) OnCommitFailure(clientTag string, reason error) {
	p.logger.Warn().Str("client_tag", clientTag).Err(reason).Msg("commit rejected")
}

func (p *journalProcessor) OnCommitSuperseded(clientTag string) {
	p.logger.Debug().Str("client_tag", clientTag).Msg("pending commit superseded by server state")
}

func (p *journalProcessor) OnEncryptionKeyChanged(keyName string) {
	p.logger.Info().Str("key_name", keyName).Msg("encryption key changed")
}

// Entities returns a snapshot copy of the local state. Must be called from
// the engine loop goroutine.
func (p *journalProcessor) Entities() map[string]LocalEntity {
	snapshot := make(map[string]LocalEntity, len(p.entities))
	for tag, entity := range p.entities {
		snapshot[tag] = entity
	}
	return snapshot
}

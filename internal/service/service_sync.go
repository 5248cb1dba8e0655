package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/store"
	"github.com/MKhiriev/go-sync-engine/models"
)

// typeContextVersion is the version of the context the server currently
// hands out. Bumped when the server starts attaching new metadata to a type.
const typeContextVersion = 1

// syncService is the concrete implementation of [SyncService]. The progress
// marker it issues is a cookie wrapping the per-type high-water version;
// clients echo it back verbatim and never parse it.
type syncService struct {
	repository store.EntityRepository
	logger     *logger.Logger
}

// NewSyncService constructs a SyncService over the given repository.
func NewSyncService(repository store.EntityRepository, log *logger.Logger) SyncService {
	return &syncService{repository: repository, logger: log}
}

// markerCookie is the decoded form of a progress-marker token. Known only to
// the server.
type markerCookie struct {
	Version int64 `json:"version"`
}

func encodeMarkerToken(version int64) []byte {
	raw, _ := json.Marshal(markerCookie{Version: version})
	token := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(token, raw)
	return token
}

func decodeMarkerToken(token []byte) (int64, error) {
	if len(token) == 0 {
		// Initial sync: everything from the beginning.
		return 0, nil
	}

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(token)))
	n, err := base64.StdEncoding.Decode(raw, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedMarker, err)
	}

	var cookie markerCookie
	if err := json.Unmarshal(raw[:n], &cookie); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedMarker, err)
	}
	if cookie.Version < 0 {
		return 0, fmt.Errorf("%w: negative watermark", ErrMalformedMarker)
	}

	return cookie.Version, nil
}

// GetUpdates implements [SyncService].
func (s *syncService) GetUpdates(ctx context.Context, accountID string, req models.GetUpdatesRequest) (models.GetUpdatesResponse, error) {
	if req.ModelType == "" {
		return models.GetUpdatesResponse{}, ErrNoModelType
	}

	since, err := decodeMarkerToken(req.ProgressMarker.Token)
	if err != nil {
		return models.GetUpdatesResponse{}, err
	}

	entities, watermark, err := s.repository.ChangesSince(ctx, accountID, req.ModelType, since)
	if err != nil {
		return models.GetUpdatesResponse{}, fmt.Errorf("list changes: %w", err)
	}

	s.logger.Debug().
		Str("account_id", accountID).
		Str("model_type", req.ModelType.String()).
		Int64("since", since).
		Int("entities", len(entities)).
		Msg("get updates served")

	return models.GetUpdatesResponse{
		Entities: entities,
		ProgressMarker: models.ProgressMarker{
			ModelType: req.ModelType,
			Token:     encodeMarkerToken(watermark),
		},
		TypeContext: models.DataTypeContext{
			ModelType: req.ModelType,
			Version:   typeContextVersion,
		},
	}, nil
}

// Commit implements [SyncService].
func (s *syncService) Commit(ctx context.Context, accountID string, req models.CommitRequest) (models.CommitResponse, error) {
	if req.ModelType == "" {
		return models.CommitResponse{}, ErrNoModelType
	}

	results := make([]models.CommitEntityResult, 0, len(req.Entities))
	for _, entity := range req.Entities {
		committed, err := s.repository.CommitEntity(ctx, accountID, req.ModelType, entity)

		switch {
		case errors.Is(err, store.ErrVersionConflict):
			s.logger.Info().
				Str("account_id", accountID).
				Str("client_tag", entity.ClientTag).
				Int64("base_version", entity.Version).
				Msg("commit conflict")
			results = append(results, models.CommitEntityResult{
				ClientTag: entity.ClientTag,
				Status:    models.CommitConflict,
			})

		case err != nil:
			s.logger.Err(err).
				Str("account_id", accountID).
				Str("client_tag", entity.ClientTag).
				Msg("commit failed")
			results = append(results, models.CommitEntityResult{
				ClientTag: entity.ClientTag,
				Status:    models.CommitError,
			})

		default:
			results = append(results, models.CommitEntityResult{
				ClientTag: committed.ClientTag,
				Status:    models.CommitSuccess,
				ServerID:  committed.ServerID,
				Version:   committed.Version,
			})
		}
	}

	return models.CommitResponse{Results: results}, nil
}

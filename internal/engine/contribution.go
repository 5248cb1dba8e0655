package engine

import "github.com/MKhiriev/go-sync-engine/models"

// commitRef remembers which pending request a contribution entity was built
// from, so wire results can be routed back by (client tag, sequence number).
type commitRef struct {
	clientTag string
	sequence  int64
}

// Contribution is one bounded batch of locally pending changes assembled for
// a single outgoing commit cycle. It is built by ModelTypeWorker.GetContribution
// and handed back its wire results via ProcessResponse; both halves of that
// round trip happen synchronously inside one commit cycle on the sync loop.
type Contribution struct {
	modelType   models.ModelType
	typeContext models.DataTypeContext
	entities    []models.SyncEntity
	refs        []commitRef
	worker      *ModelTypeWorker
}

// Len returns the number of entities in the contribution.
func (c *Contribution) Len() int { return len(c.entities) }

// BuildRequest derives the wire commit request for this contribution. The
// stored type context is echoed back so the server can detect a stale
// client.
func (c *Contribution) BuildRequest() models.CommitRequest {
	return models.CommitRequest{
		ModelType:   c.modelType,
		TypeContext: c.typeContext,
		Entities:    append([]models.SyncEntity(nil), c.entities...),
	}
}

// ProcessResponse pairs the server's per-entity results with the sequence
// numbers this contribution was built from and forwards them to the worker's
// OnCommitResponse. Results for entities that were not part of this
// contribution are ignored.
func (c *Contribution) ProcessResponse(resp models.CommitResponse) {
	bySequence := make(map[string]int64, len(c.refs))
	for _, ref := range c.refs {
		bySequence[ref.clientTag] = ref.sequence
	}

	responses := make([]models.CommitResponseData, 0, len(resp.Results))
	for _, result := range resp.Results {
		seq, ok := bySequence[result.ClientTag]
		if !ok {
			continue
		}
		responses = append(responses, models.CommitResponseData{
			ClientTag:      result.ClientTag,
			SequenceNumber: seq,
			Status:         result.Status,
			ServerID:       result.ServerID,
			Version:        result.Version,
		})
	}

	c.worker.OnCommitResponse(responses)
}

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/natsclient"

	"github.com/litkg/litkg/vocabulary/lkg"
)

// GraphIngestSubject is the stream subject for entity ingestion.
const GraphIngestSubject = "graph.ingest.entity"

// EntityIngestMessage is the message format for graph ingestion.
// Matches the format used by other semstreams components.
type EntityIngestMessage struct {
	ID        string           `json:"id"`
	Triples   []message.Triple `json:"triples"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// PublishEntities publishes the built graph to the ingestion stream, one
// message per entity carrying its property triples, its class statement
// and its outgoing relation edges.
func PublishEntities(ctx context.Context, nc *natsclient.Client, source string, entities []Entity, edges []Edge) error {
	if nc == nil {
		return nil // Skip publishing if no NATS client (graceful degradation)
	}

	outgoing := make(map[string][]Edge, len(entities))
	for _, edge := range edges {
		outgoing[edge.Subject] = append(outgoing[edge.Subject], edge)
	}

	now := time.Now()
	for _, e := range entities {
		triples := make([]message.Triple, 0, len(e.Triples)+len(outgoing[e.ID])+1)
		triples = append(triples, message.Triple{
			Subject:    e.ID,
			Predicate:  lkg.RDFType,
			Object:     lkg.ClassIRI(e.Type),
			Source:     source,
			Timestamp:  now,
			Confidence: 1.0,
		})
		triples = append(triples, e.Triples...)
		for _, edge := range outgoing[e.ID] {
			triples = append(triples, message.Triple{
				Subject:    edge.Subject,
				Predicate:  edge.Predicate,
				Object:     edge.Object,
				Source:     source,
				Timestamp:  now,
				Confidence: 1.0,
			})
		}

		msg := EntityIngestMessage{ID: e.ID, Triples: triples, UpdatedAt: now}
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal entity %s: %w", e.ID, err)
		}
		if err := nc.PublishToStream(ctx, GraphIngestSubject, data); err != nil {
			return fmt.Errorf("publish entity %s: %w", e.ID, err)
		}
	}
	return nil
}

// Package pipeline orchestrates a full build run: load vocabularies and
// the source workbook, normalize and resolve every row, assemble the
// graph, then write the serialized graph and the curation report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/c360studio/semstreams/natsclient"

	"github.com/litkg/litkg/config"
	"github.com/litkg/litkg/detect"
	"github.com/litkg/litkg/enrich"
	"github.com/litkg/litkg/export"
	"github.com/litkg/litkg/gazetteer"
	"github.com/litkg/litkg/graph"
	"github.com/litkg/litkg/normalize"
	"github.com/litkg/litkg/reference"
	"github.com/litkg/litkg/report"
	"github.com/litkg/litkg/resolve"
	"github.com/litkg/litkg/source"
	"github.com/litkg/litkg/vocabulary/lkg"
)

// tripleSource tags every triple the pipeline emits.
const tripleSource = "litkg.build"

// Pipeline runs the spreadsheet-to-graph build.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger

	// nats, when set, receives every built entity on the ingestion
	// stream in addition to the file output.
	nats *natsclient.Client
}

// Option configures optional pipeline capabilities.
type Option func(*Pipeline)

// WithNATS streams built entities to the given client.
func WithNATS(nc *natsclient.Client) Option {
	return func(p *Pipeline) { p.nats = nc }
}

// New creates a pipeline for a validated configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the build end to end.
func (p *Pipeline) Run(ctx context.Context) error {
	cfg := p.cfg

	tables, err := reference.Load(cfg.Reference, p.logger)
	if err != nil {
		return fmt.Errorf("load reference tables: %w", err)
	}

	var fetcher gazetteer.Fetcher
	if cfg.Gazetteer.FetchEnabled() {
		if cfg.Gazetteer.Username == "" {
			return errors.New("gazetteer fetch enabled but no username configured")
		}
		fetcher = gazetteer.NewGeonamesClient(cfg.Gazetteer.Username)
	}
	cache, err := gazetteer.Open(cfg.Gazetteer.CachePath, fetcher, p.logger)
	if err != nil {
		return fmt.Errorf("open gazetteer cache: %w", err)
	}
	if fetcher != nil {
		primeGazetteer(ctx, cache, tables.GeonamesIDs(), p.logger)
	}

	var detector detect.Detector
	if cfg.Detect.IsEnabled() {
		detector, err = detect.NewLinguaDetector(cfg.Detect.Languages)
		if err != nil {
			return fmt.Errorf("build language detector: %w", err)
		}
	}

	resolver := resolve.NewResolver(tables, cache, resolve.Options{
		Detector:   detector,
		Candidates: cfg.Detect.Languages,
		Logger:     p.logger,
	})

	wb, err := source.Load(cfg.Workbook)
	if err != nil {
		return fmt.Errorf("load workbook: %w", err)
	}

	builder := graph.NewBuilder(tripleSource, p.logger)
	builder.AddTypes(tables.Types())
	builder.AddLanguages(tables.Languages())

	if err := p.addRecords(ctx, wb, resolver, builder); err != nil {
		return err
	}
	builder.InferWorks()

	if cfg.Enrich.Dir != "" {
		if err := p.applyEnrichment(builder); err != nil {
			return err
		}
	}

	entities, edges := builder.Build()

	if err := cache.Flush(); err != nil {
		return fmt.Errorf("flush gazetteer cache: %w", err)
	}

	if cfg.Output.UnresolvedReport != "" {
		unresolved := resolver.UnresolvedPlaces()
		if err := report.WriteUnresolvedPlaces(cfg.Output.UnresolvedReport, unresolved, p.logger); err != nil {
			return fmt.Errorf("write unresolved report: %w", err)
		}
	}

	exporter := export.NewRDFExporter(entities, edges)
	if err := exporter.WriteFile(cfg.Output.GraphPath, export.Format(cfg.Output.Format)); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	p.logger.Info("Wrote graph",
		slog.String("path", cfg.Output.GraphPath),
		slog.String("format", cfg.Output.Format))

	if err := graph.PublishEntities(ctx, p.nats, tripleSource, entities, edges); err != nil {
		return fmt.Errorf("publish entities: %w", err)
	}
	return nil
}

// addRecords walks every configured sheet in order and feeds each usable
// row through normalization, resolution and the builder.
func (p *Pipeline) addRecords(ctx context.Context, wb *source.Workbook, resolver *resolve.Resolver, builder *graph.Builder) error {
	sheetLangs := make([]string, 0, len(p.cfg.Sheets))
	for _, schema := range p.cfg.Sheets {
		sheetLangs = append(sheetLangs, schema.Language)
	}

	total := 0
	seen := make(map[string]int)
	for _, schema := range p.cfg.Sheets {
		sheet, ok := wb.Sheet(schema.Name)
		if !ok {
			p.logger.Warn("Configured sheet missing from workbook",
				slog.String("sheet", schema.Name))
			continue
		}

		n, err := normalize.NewNormalizer(schema, sheet, sheetLangs)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", schema.Name, err)
		}

		count := 0
		for _, row := range sheet.Rows {
			rec, err := n.Normalize(row)
			if errors.Is(err, normalize.ErrSkip) {
				continue
			}
			if err != nil {
				return fmt.Errorf("sheet %s row %d: %w", schema.Name, row.Index, err)
			}
			// Duplicated yids in the source keep the first occurrence.
			if first, dup := seen[rec.YID]; dup {
				p.logger.Warn("Duplicate YID, keeping first occurrence",
					slog.String("sheet", schema.Name),
					slog.String("yid", rec.YID),
					slog.Int("row", row.Index),
					slog.Int("first_row", first))
				continue
			}
			seen[rec.YID] = row.Index
			builder.AddRecord(resolver.Resolve(ctx, rec))
			count++
		}
		total += count
		p.logger.Info("Processed sheet",
			slog.String("sheet", schema.Name), slog.Int("records", count))
	}
	p.logger.Info("Processed all sheets", slog.Int("records", total))
	return nil
}

// primeGazetteer warms the cache for every id the place table maps to,
// so a fetch-enabled run resolves all known places up front instead of
// lazily mid-build. Failed ids already degraded to logged misses.
func primeGazetteer(ctx context.Context, cache *gazetteer.Cache, ids []string, logger *slog.Logger) {
	for _, id := range ids {
		// A failed fetch degrades to a logged miss inside the cache.
		_, _ = cache.Get(ctx, id)
	}
	logger.Info("Primed gazetteer cache",
		slog.Int("ids", len(ids)), slog.Int("entries", cache.Len()))
}

// EnrichGraph appends reconciled wikidata identities to an already
// written graph file as owl:sameAs statements. Full-IRI statements are
// valid in both Turtle and N-Triples output, so the file format does not
// matter. Used by the standalone enrich command; a build run applies the
// same links inline.
func (p *Pipeline) EnrichGraph() error {
	cfg := p.cfg

	links, err := enrich.Load(cfg.Enrich.Dir, cfg.Enrich.Pattern, p.logger)
	if err != nil {
		return fmt.Errorf("load reconciliation tables: %w", err)
	}
	if len(links) == 0 {
		p.logger.Info("No reconciled identities to apply")
		return nil
	}

	f, err := os.OpenFile(cfg.Output.GraphPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open graph %s: %w", cfg.Output.GraphPath, err)
	}
	defer f.Close()

	for _, link := range links {
		if _, err := fmt.Fprintf(f, "<%s> <%s> <%s> .\n",
			link.URI, lkg.OWLSameAs, lkg.WikidataNamespace+link.WikidataID); err != nil {
			return fmt.Errorf("append sameAs statement: %w", err)
		}
	}
	p.logger.Info("Enriched graph",
		slog.String("path", cfg.Output.GraphPath), slog.Int("links", len(links)))
	return nil
}

// applyEnrichment attaches reconciled wikidata identities to entities
// already in the graph. A missing reconciliation directory is not an
// error; enrichment is an optional follow-up stage.
func (p *Pipeline) applyEnrichment(builder *graph.Builder) error {
	if _, err := os.Stat(p.cfg.Enrich.Dir); errors.Is(err, os.ErrNotExist) {
		p.logger.Info("No reconciliation directory, skipping enrichment",
			slog.String("dir", p.cfg.Enrich.Dir))
		return nil
	}

	links, err := enrich.Load(p.cfg.Enrich.Dir, p.cfg.Enrich.Pattern, p.logger)
	if err != nil {
		return fmt.Errorf("load reconciliation tables: %w", err)
	}

	applied := 0
	for _, link := range links {
		id := strings.TrimPrefix(link.URI, lkg.EntityNamespace)
		if builder.AddSameAs(id, lkg.WikidataNamespace+link.WikidataID) {
			applied++
		} else {
			p.logger.Debug("Reconciled entity not in graph", slog.String("uri", link.URI))
		}
	}
	p.logger.Info("Applied enrichment",
		slog.Int("links", len(links)), slog.Int("applied", applied))
	return nil
}

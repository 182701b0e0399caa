// Package enrich reads reconciled external-identity tables and turns
// them into sameAs statements on graph entities.
package enrich

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Link is one reconciled identity: an entity IRI paired with its
// wikidata id.
type Link struct {
	URI        string
	WikidataID string
}

// Load reads every reconciliation table under dir matching pattern.
// Tables are tab-separated with a header row naming at least the uri and
// idwd columns. Rows missing either value are unreconciled and skipped.
func Load(dir, pattern string, logger *slog.Logger) ([]Link, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("match pattern %q: %w", pattern, err)
	}

	var links []Link
	for _, name := range matches {
		fileLinks, err := loadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Join(dir, name), err)
		}
		logger.Info("Loaded reconciliation table",
			slog.String("file", name), slog.Int("links", len(fileLinks)))
		links = append(links, fileLinks...)
	}
	return links, nil
}

func loadFile(fsys fs.FS, name string) ([]Link, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	uriCol, wdCol := -1, -1
	for i, h := range header {
		switch h {
		case "uri":
			uriCol = i
		case "idwd":
			wdCol = i
		}
	}
	if uriCol < 0 || wdCol < 0 {
		return nil, fmt.Errorf("missing uri or idwd column")
	}

	var links []Link
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if uriCol >= len(row) || wdCol >= len(row) {
			continue
		}
		uri, wd := row[uriCol], row[wdCol]
		if uri == "" || wd == "" {
			continue
		}
		links = append(links, Link{URI: uri, WikidataID: wd})
	}
	return links, nil
}

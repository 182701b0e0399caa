package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c360studio/semstreams/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litkg/litkg/graph"
	"github.com/litkg/litkg/vocabulary/lkg"
)

func testGraph() ([]graph.Entity, []graph.Edge) {
	entities := []graph.Entity{
		{
			ID:   "E52_NFPL5.pub",
			Type: lkg.EntityTypeTimespan,
			Triples: []message.Triple{
				{Subject: "E52_NFPL5.pub", Predicate: lkg.TimespanBegin, Object: "1957", Datatype: "xsd:gYear"},
			},
		},
		{
			ID:   "F2_NFPL5",
			Type: lkg.EntityTypeExpression,
			Triples: []message.Triple{
				{Subject: "F2_NFPL5", Predicate: lkg.MetaPrefLabel, Object: "Dialogi"},
				{Subject: "F2_NFPL5", Predicate: lkg.MetaSameAs, Object: "http://www.wikidata.org/entity/Q1203004"},
			},
		},
	}
	edges := []graph.Edge{
		{Subject: "F2_NFPL5", Predicate: lkg.RelHasLanguage, Object: "E56_PL"},
	}
	return entities, edges
}

func TestExportTurtle(t *testing.T) {
	e := NewRDFExporter(testGraph())
	out, err := e.Export(FormatTurtle)
	require.NoError(t, err)

	assert.Contains(t, out, "@prefix crm: <http://www.cidoc-crm.org/cidoc-crm/> .")
	assert.Contains(t, out, "@prefix lrmoo: <http://iflastandards.info/ns/lrm/lrmoo/> .")
	assert.Contains(t, out, "<http://lkg.org.pl/entity/F2_NFPL5>")
	assert.Contains(t, out, "a <http://iflastandards.info/ns/lrm/lrmoo/F2_Expression>")
	assert.Contains(t, out, `"Dialogi"`)
	assert.Contains(t, out, "<http://www.wikidata.org/entity/Q1203004>")
	assert.Contains(t, out, `"1957"^^xsd:gYear`)

	// Relation edges reference the target entity IRI.
	assert.Contains(t, out, "<http://lkg.org.pl/entity/E56_PL>")
	assert.Contains(t, out, "P72_has_language")
}

func TestExportNTriples(t *testing.T) {
	e := NewRDFExporter(testGraph())
	out, err := e.Export(FormatNTriples)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Two class statements, three property triples, one edge.
	assert.Len(t, lines, 6)
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " ."), line)
	}
	assert.Contains(t, out, `"1957"^^<http://www.w3.org/2001/XMLSchema#gYear>`)
	assert.Contains(t, out,
		"<http://lkg.org.pl/entity/F2_NFPL5> <http://www.cidoc-crm.org/cidoc-crm/P72_has_language> <http://lkg.org.pl/entity/E56_PL> .")
}

func TestExportUnsupportedFormat(t *testing.T) {
	e := NewRDFExporter(nil, nil)
	_, err := e.Export(Format("jsonld"))
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lkg.ttl")
	e := NewRDFExporter(testGraph())
	require.NoError(t, e.WriteFile(path, FormatTurtle))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@prefix")
}

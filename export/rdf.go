// Package export serializes the built knowledge graph to RDF.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/litkg/litkg/graph"
	"github.com/litkg/litkg/vocabulary/crm"
	"github.com/litkg/litkg/vocabulary/lkg"
	"github.com/litkg/litkg/vocabulary/lrmoo"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// RDFExporter serializes entities and relation edges to RDF.
type RDFExporter struct {
	entities []graph.Entity
	edges    map[string][]graph.Edge
	prefixes map[string]string
}

// NewRDFExporter creates an exporter over a built graph. Entities and
// edges are expected in the deterministic order the builder produces.
func NewRDFExporter(entities []graph.Entity, edges []graph.Edge) *RDFExporter {
	bySubject := make(map[string][]graph.Edge, len(entities))
	for _, edge := range edges {
		bySubject[edge.Subject] = append(bySubject[edge.Subject], edge)
	}
	return &RDFExporter{
		entities: entities,
		edges:    bySubject,
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
		"owl":    "http://www.w3.org/2002/07/owl#",
		"xsd":    "http://www.w3.org/2001/XMLSchema#",
		"skos":   "http://www.w3.org/2004/02/skos/core#",
		"crm":    crm.Namespace,
		"lrmoo":  lrmoo.Namespace,
		"lkg":    lkg.Namespace,
		"entity": lkg.EntityNamespace,
		"geo":    lkg.GeonamesNamespace,
		"wd":     lkg.WikidataNamespace,
	}
}

// Export serializes the graph in the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile serializes the graph and writes it to path, creating parent
// directories as needed.
func (e *RDFExporter) WriteFile(path string, format Format) error {
	out, err := e.Export(format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

func (e *RDFExporter) toTurtle() string {
	var sb strings.Builder

	prefixKeys := make([]string, 0, len(e.prefixes))
	for k := range e.prefixes {
		prefixKeys = append(prefixKeys, k)
	}
	sort.Strings(prefixKeys)
	for _, prefix := range prefixKeys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, e.prefixes[prefix]))
	}
	sb.WriteString("\n")

	for _, entity := range e.entities {
		e.writeEntityTurtle(&sb, entity)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (e *RDFExporter) writeEntityTurtle(sb *strings.Builder, entity graph.Entity) {
	sb.WriteString(fmt.Sprintf("<%s>\n", lkg.EntityIRI(entity.ID)))

	type statement struct {
		predicate string
		object    string
	}
	statements := []statement{{"a", "<" + lkg.ClassIRI(entity.Type) + ">"}}
	for _, triple := range entity.Triples {
		statements = append(statements, statement{
			"<" + lkg.GetPredicateIRI(triple.Predicate) + ">",
			formatObject(triple.Object, triple.Datatype, false),
		})
	}
	for _, edge := range e.edges[entity.ID] {
		statements = append(statements, statement{
			"<" + lkg.GetPredicateIRI(edge.Predicate) + ">",
			"<" + lkg.EntityIRI(edge.Object) + ">",
		})
	}

	for i, st := range statements {
		terminator := " ;\n"
		if i == len(statements)-1 {
			terminator = " .\n"
		}
		sb.WriteString(fmt.Sprintf("    %s %s%s", st.predicate, st.object, terminator))
	}
}

func (e *RDFExporter) toNTriples() string {
	var sb strings.Builder

	for _, entity := range e.entities {
		iri := lkg.EntityIRI(entity.ID)
		sb.WriteString(fmt.Sprintf("<%s> <%s> <%s> .\n", iri, lkg.RDFType, lkg.ClassIRI(entity.Type)))
		for _, triple := range entity.Triples {
			sb.WriteString(fmt.Sprintf("<%s> <%s> %s .\n",
				iri, lkg.GetPredicateIRI(triple.Predicate),
				formatObject(triple.Object, triple.Datatype, true)))
		}
		for _, edge := range e.edges[entity.ID] {
			sb.WriteString(fmt.Sprintf("<%s> <%s> <%s> .\n",
				iri, lkg.GetPredicateIRI(edge.Predicate), lkg.EntityIRI(edge.Object)))
		}
	}
	return sb.String()
}

// formatObject formats a property value. IRIs are emitted as references,
// everything else as a literal with its optional datatype.
func formatObject(obj any, datatype string, expand bool) string {
	switch v := obj.(type) {
	case string:
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return "<" + v + ">"
		}
		// %q escaping matches the Turtle and N-Triples string escapes.
		lit := fmt.Sprintf("%q", v)
		if datatype != "" {
			return lit + "^^" + formatDatatype(datatype, expand)
		}
		return lit
	case bool:
		return fmt.Sprintf("\"%t\"^^%s", v, formatDatatype("xsd:boolean", expand))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^%s", v, formatDatatype("xsd:integer", expand))
	case float32, float64:
		return fmt.Sprintf("\"%f\"^^%s", v, formatDatatype("xsd:decimal", expand))
	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", v))
	}
}

// formatDatatype renders an xsd-prefixed datatype, expanded to a full
// IRI reference for N-Triples.
func formatDatatype(datatype string, expand bool) string {
	if !expand {
		return datatype
	}
	local := strings.TrimPrefix(datatype, "xsd:")
	return "<http://www.w3.org/2001/XMLSchema#" + local + ">"
}

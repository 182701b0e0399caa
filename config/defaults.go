package config

// defaultPageMarks are the page-marker tokens observed across the
// non-fiction sheets ("s.12", "pp. 3", "页 7", ...).
var defaultPageMarks = []string{
	"s", "c", "S", "p", "pp", "页", "lk", "Ik", "σ", "გ", "б", "l", "г", "old",
}

// nfSheetOrder is the universal non-fiction column sequence. The sheets
// share column meaning, quantity and order but not headings, so they are
// addressed positionally. "-" marks separator columns to skip.
var nfSheetOrder = []string{
	"is_main", "yid_main", "yid_sub", "-", "author", "-", "title", "-",
	"publisher", "-", "pub_info", "more", "refs", "-", "translators", "-",
	"type",
}

// nfSheets lists the workable non-fiction sheet names. Auxiliary sheets
// like "BE_all" or "JA (2)" are excluded because their row ids overlap
// with their language's base sheet.
var nfSheets = []string{
	"PL", "RU", "DE", "EN", "ES", "UK", "FR", "LT", "BE", "BG", "CS", "PT",
	"IT", "ZH", "ET", "EL", "KA", "KY", "JA", "LV", "MK", "MN", "RO", "SR",
	"SK", "SL", "HR", "SV", "TR", "HU", "FI", "NL", "HE",
}

// nfEndRow marks the last data row for sheets that carry trailing
// non-data content. Sheets not listed here are read to the end.
var nfEndRow = map[string]int{
	"SK": 21,
	"PL": 6079,
	"RU": 3326,
	"LV": 41,
	"ZH": 32,
}

// DefaultConfig returns a configuration with sensible defaults and the
// built-in schemas for all non-fiction sheets.
func DefaultConfig() *Config {
	cfg := &Config{
		Gazetteer: GazetteerConfig{
			CachePath: "data/geocache.json",
		},
		Detect: DetectConfig{
			Languages: []string{
				"be", "de", "en", "es", "el", "fr", "it", "ja",
				"pl", "pt", "ru", "tr", "uk", "zh",
			},
		},
		Enrich: EnrichConfig{
			Dir:     "data/reconciled",
			Pattern: "*.tsv",
		},
		Output: OutputConfig{
			GraphPath:        "output/lkg.ttl",
			Format:           "turtle",
			UnresolvedReport: "output/cities_new.xlsx",
		},
	}

	for _, name := range nfSheets {
		startCol := 2
		if name == "RU" {
			startCol = 3
		}
		cfg.Sheets = append(cfg.Sheets, SheetSchema{
			Name:     name,
			Prefix:   "NF" + name,
			Language: name,
			Order:    nfSheetOrder,
			StartCol: startCol,
			Rows:     RowRange{Start: 1, End: nfEndRow[name]},
			Combined: &CombinedRule{
				Field:     "pub_info",
				PageMarks: defaultPageMarks,
			},
		})
	}

	return cfg
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Category prefixes for minted identifiers.
const (
	// PrefixNonfiction marks ids from the non-fiction sheets; the sheet
	// language code follows it.
	PrefixNonfiction = "NF"
	// PrefixOther marks references into datasets outside the non-fiction
	// sheets. These are recognized but not linked.
	PrefixOther = "OTH"
)

var (
	leadingLettersRe = regexp.MustCompile(`^[A-Za-z]+`)
	leadingDigitsRe  = regexp.MustCompile(`^\d+`)
)

// ExpandRange expands the "÷" range notation into explicit ids:
// "355.9.1÷9.4" becomes [355.9.1 355.9.2 355.9.3 355.9.4]. Strings
// without a well-formed range come back unchanged as a single element.
func ExpandRange(src string) []string {
	if !strings.Contains(src, "÷") {
		return []string{src}
	}
	bounds := strings.SplitN(src, "÷", 2)

	dot := strings.LastIndex(bounds[0], ".")
	if dot < 0 {
		return []string{src}
	}
	mainID, firstPart := bounds[0][:dot], bounds[0][dot+1:]
	lastPart := bounds[1]
	if i := strings.LastIndex(lastPart, "."); i >= 0 {
		lastPart = lastPart[i+1:]
	}

	first, err := strconv.Atoi(firstPart)
	if err != nil {
		return []string{src}
	}
	last, err := strconv.Atoi(lastPart)
	if err != nil {
		return []string{src}
	}

	ids := make([]string, 0, last-first+1)
	for sub := first; sub <= last; sub++ {
		ids = append(ids, mainID+"."+strconv.Itoa(sub))
	}
	return ids
}

// NormalizeRef turns a raw reference cell into explicit prefixed ids.
// Ranges marked with "÷", lists marked with ", " and chapter lists
// marked with ";" are expanded. Trailing relation markers ("-", ">",
// "<", "!") are preserved except inside ranges. References suffixed "?"
// are uncertain and dropped; references into non-language datasets are
// dropped.
//
// A "÷" range pointing into the record's own sheet enumerates the
// record's components, not derivation sources, so those ids come back
// in parts instead of refs.
func NormalizeRef(sourceRef, prefixDefault, prefixNF string, langPrefixes []string, prefixOther string) (refs, parts []string) {
	isLang := func(p string) bool {
		for _, lp := range langPrefixes {
			if p == lp {
				return true
			}
		}
		return false
	}
	prefixOwn := prefixNF + prefixDefault

	for _, subref := range strings.Split(sourceRef, ", ") {
		for _, sref := range strings.Split(subref, "+") {
			sref = strings.TrimSpace(sref)
			if sref == "" {
				continue
			}

			if sref[0] >= '0' && sref[0] <= '9' {
				if isLang(prefixDefault) {
					sref = prefixNF + prefixDefault + sref
				} else {
					sref = prefixOther + prefixDefault + sref
				}
			} else {
				prefix := leadingLettersRe.FindString(sref)
				if prefix == "" {
					continue
				}
				number := strings.Trim(sref[len(prefix):], ":")
				if !isLang(prefix) {
					continue
				}
				sref = prefixNF + prefix + number
			}
			if strings.HasPrefix(sref, prefixOther) {
				continue
			}

			bounds := strings.Split(sref, "÷")
			switch {
			case len(bounds) > 1:
				dst := &refs
				if isLang(prefixDefault) && strings.HasPrefix(bounds[0], prefixOwn) {
					dst = &parts
				}
				firstID, firstPart := rsplitDot(bounds[0])
				_, lastPart := rsplitDot(bounds[len(bounds)-1])
				if i := strings.Index(lastPart, ";"); i >= 0 {
					for _, extra := range strings.Split(lastPart[i+1:], ";") {
						if num := leadingDigitsRe.FindString(extra); num != "" {
							*dst = append(*dst, firstID+"."+num)
						}
					}
					lastPart = lastPart[:i]
				}
				numF := leadingDigitsRe.FindString(firstPart)
				numL := leadingDigitsRe.FindString(lastPart)
				if numF == "" || numL == "" {
					continue
				}
				f, _ := strconv.Atoi(numF)
				l, _ := strconv.Atoi(numL)
				for x := f; x <= l; x++ {
					*dst = append(*dst, firstID+"."+strconv.Itoa(x))
				}
			case strings.Contains(sref, ";"):
				mainID, subIDs, ok := strings.Cut(sref, ".")
				if !ok {
					continue
				}
				for _, subID := range strings.Split(subIDs, ";") {
					refs = append(refs, mainID+"."+subID)
				}
			default:
				if !strings.HasSuffix(sref, "?") {
					refs = append(refs, sref)
				}
			}
		}
	}
	return refs, parts
}

// rsplitDot splits an id on its last dot. Ids without a dot come back
// whole in both positions, matching how range bounds degrade.
func rsplitDot(id string) (head, tail string) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return id, id
	}
	return id[:i], id[i+1:]
}

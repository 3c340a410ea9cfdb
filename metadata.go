package epublang

import (
	"sort"
	"strconv"
	"strings"
)

// writingModeProperty names the meta carrying the page progression of
// vertical East Asian books.
const writingModeProperty = "primary-writing-mode"

// extractMetadata converts the raw OPF metadata into the public Metadata struct.
func extractMetadata(opf *opfPackage) Metadata {
	md := Metadata{
		Version: opf.Version,
	}
	om := &opf.Metadata

	// Build a refines lookup for ePub 3: "#id" → []opfMeta.
	refinesMap := buildRefinesMap(om.Metas)

	md.Titles = extractTitles(om.Titles, refinesMap)

	for _, v := range opf.Languages {
		if v != "" {
			md.Language = append(md.Language, v)
		}
	}

	md.WritingMode = extractWritingMode(om.Metas)

	return md
}

// extractWritingMode returns the first non-empty primary-writing-mode value.
// ePub 2 uses <meta name=".." content="..">; ePub 3 uses <meta property="..">value</meta>.
func extractWritingMode(metas []opfMeta) string {
	for _, m := range metas {
		if m.Refines != "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(m.Name), writingModeProperty) {
			if v := strings.TrimSpace(m.Content); v != "" {
				return v
			}
		}
		if strings.EqualFold(strings.TrimSpace(m.Property), writingModeProperty) {
			if v := strings.TrimSpace(m.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

// buildRefinesMap builds a map from element ID (without "#") to the list of
// <meta refines="#id" ...> elements that refine it.
func buildRefinesMap(metas []opfMeta) map[string][]opfMeta {
	m := make(map[string][]opfMeta)
	for _, meta := range metas {
		ref := meta.Refines
		if ref == "" || !strings.HasPrefix(ref, "#") {
			continue
		}
		id := ref[1:]
		m[id] = append(m[id], meta)
	}
	return m
}

// findRefine looks up a single refining property value for the given element ID.
func findRefine(refinesMap map[string][]opfMeta, id, property string) (string, bool) {
	for _, m := range refinesMap[id] {
		if m.Property == property {
			if v := strings.TrimSpace(m.Value); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// extractTitles extracts titles from dc:title elements.
// For ePub 3, titles are ordered by display-seq from refines metadata;
// titles without a display-seq follow those that have one.
func extractTitles(titles []opfDCElement, refinesMap map[string][]opfMeta) []string {
	type titleEntry struct {
		value string
		seq   int
	}

	entries := make([]titleEntry, 0, len(titles))
	for _, t := range titles {
		v := strings.TrimSpace(t.Value)
		if v == "" {
			continue
		}
		e := titleEntry{value: v}
		if t.ID != "" {
			if seqStr, ok := findRefine(refinesMap, t.ID, "display-seq"); ok {
				if n, err := strconv.Atoi(seqStr); err == nil && n > 0 {
					e.seq = n
				}
			}
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		si, sj := entries[i].seq, entries[j].seq
		switch {
		case si == 0:
			return false
		case sj == 0:
			return true
		default:
			return si < sj
		}
	})

	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = e.value
	}
	return result
}

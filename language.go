package epublang

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Kindle keys its Traditional Chinese typography (centred punctuation and
// the traditional font family) off the script tag, not the region tag.
const (
	traditionalChineseRegionTag = "zh-tw"
	traditionalChineseScriptTag = "zh-hant"
)

// NormalizeLanguage returns the tag Kindle expects for candidate.
// A candidate equal to "zh-TW" (in any case) becomes "zh-hant"; every other
// string is returned unchanged.
func NormalizeLanguage(candidate string) string {
	if strings.EqualFold(candidate, traditionalChineseRegionTag) {
		return traditionalChineseScriptTag
	}
	return candidate
}

// LanguageCount is one row of a content language frequency table.
type LanguageCount struct {
	// Tag is the first spelling of the language seen in spine order.
	Tag string `json:"tag"`

	// Files is the number of content documents declaring the language.
	Files int `json:"files"`
}

// LanguageCounts is a frequency table of content document languages,
// ordered by descending file count with ties in first-seen order.
type LanguageCounts []LanguageCount

// Best returns the most frequent tag, or "" for an empty table.
func (lc LanguageCounts) Best() string {
	if len(lc) == 0 {
		return ""
	}
	return lc[0].Tag
}

// Total returns the number of content documents that declared a language.
func (lc LanguageCounts) Total() int {
	n := 0
	for _, c := range lc {
		n += c.Files
	}
	return n
}

// Count returns the number of files declaring tag (case-insensitive).
func (lc LanguageCounts) Count(tag string) int {
	for _, c := range lc {
		if strings.EqualFold(c.Tag, tag) {
			return c.Files
		}
	}
	return 0
}

// countLanguages builds a LanguageCounts table from tags listed in spine order.
// Empty tags are ignored; tags are grouped case-insensitively.
func countLanguages(tags []string) LanguageCounts {
	index := make(map[string]int)
	var counts LanguageCounts
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if i, ok := index[key]; ok {
			counts[i].Files++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, LanguageCount{Tag: tag, Files: 1})
	}
	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Files > counts[j].Files
	})
	return counts
}

// SelectLanguage picks the candidate language for a book whose packaging
// document declares declared and whose content documents declare counts.
//
// With fixSuffix disabled the declared tag is the candidate. With it enabled,
// the most frequent content tag replaces the declared tag when the declared
// tag is empty or names the same base language (so "zh" may become "zh-TW",
// but "en" never becomes "fr").
func SelectLanguage(declared string, counts LanguageCounts, fixSuffix bool) string {
	declared = strings.TrimSpace(declared)
	if !fixSuffix {
		return declared
	}
	best := counts.Best()
	if best == "" {
		return declared
	}
	if declared == "" || sameBaseLanguage(declared, best) {
		return best
	}
	return declared
}

// sameBaseLanguage reports whether a and b share a primary language subtag.
func sameBaseLanguage(a, b string) bool {
	return baseLanguage(a) == baseLanguage(b)
}

// baseLanguage returns the lowercase primary language subtag of tag.
// Tags that do not parse as BCP 47 fall back to the text before the first
// hyphen or underscore.
func baseLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if t, err := language.Parse(tag); err == nil {
		if base, conf := t.Base(); conf != language.No {
			return base.String()
		}
	}
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

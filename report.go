package epublang

import (
	"fmt"
	"strings"
)

// verticalWritingMode is the primary-writing-mode of vertical right-to-left books.
const verticalWritingMode = "vertical-rl"

// LanguageReport summarises the language facts of a book for a person
// preparing it for Kindle conversion.
type LanguageReport struct {
	Title       string         `json:"title,omitempty"`
	Declared    []string       `json:"declared"`
	WritingMode string         `json:"writing_mode,omitempty"`
	Content     LanguageCounts `json:"content"`
	Resolution  Resolution     `json:"resolution"`
	Notes       []string       `json:"notes,omitempty"`
}

// Report builds a LanguageReport for book using the fixer's selection rules.
// Nothing is logged; Notes lists the input conditions under which the
// Traditional Chinese substitution does not take effect on device.
func (f *Fixer) Report(book *Book) LanguageReport {
	md := book.Metadata()
	counts := book.ContentLanguages()

	quiet := &Fixer{FixLanguageSuffix: f != nil && f.FixLanguageSuffix}
	rep := LanguageReport{
		Declared:    md.Language,
		WritingMode: md.WritingMode,
		Content:     counts,
		Resolution:  quiet.Resolve(md.PrimaryLanguage(), counts),
	}
	if len(md.Titles) > 0 {
		rep.Title = md.Titles[0]
	}
	rep.Notes = traditionalChineseNotes(md, counts)
	return rep
}

// traditionalChineseNotes checks the preparation conditions for Traditional
// Chinese books: the packaging document declares zh or zh-hant, most content
// documents declare zh-TW, and vertical books set primary-writing-mode.
func traditionalChineseNotes(md Metadata, counts LanguageCounts) []string {
	twFiles := counts.Count(traditionalChineseRegionTag)
	declared := md.PrimaryLanguage()
	if twFiles == 0 && !strings.EqualFold(declared, traditionalChineseScriptTag) {
		return nil
	}

	var notes []string
	if !strings.EqualFold(declared, "zh") && !strings.EqualFold(declared, traditionalChineseScriptTag) {
		notes = append(notes, fmt.Sprintf("packaging document declares %q; use \"zh\" or \"zh-hant\"", declared))
	}
	if total := counts.Total(); total > 0 && twFiles*2 <= total {
		notes = append(notes, fmt.Sprintf("only %d of %d content documents declare zh-TW; a majority is needed", twFiles, total))
	}
	if md.WritingMode == "" {
		notes = append(notes, "no primary-writing-mode declared; vertical books need "+verticalWritingMode)
	} else if !strings.EqualFold(md.WritingMode, verticalWritingMode) {
		notes = append(notes, fmt.Sprintf("primary-writing-mode is %q", md.WritingMode))
	}
	return notes
}

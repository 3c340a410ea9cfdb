package epublang

// Metadata holds the packaging document fields that language fixing needs.
type Metadata struct {
	// Version is the ePub specification version (e.g., "2.0", "3.0").
	Version string `json:"version"`

	// Titles contains all dc:title values. The first entry is the primary title.
	Titles []string `json:"titles,omitempty"`

	// Language contains all dc:language values (BCP 47 tags, e.g., "zh", "zh-TW").
	Language []string `json:"language,omitempty"`

	// WritingMode is the primary-writing-mode meta value (e.g., "vertical-rl"),
	// from either the ePub 2 name/content form or the ePub 3 property form.
	WritingMode string `json:"writing_mode,omitempty"`
}

// PrimaryLanguage returns the first dc:language value, or "" when none is declared.
func (m Metadata) PrimaryLanguage() string {
	if len(m.Language) == 0 {
		return ""
	}
	return m.Language[0]
}

// ContentFile is a spine-ordered markup document of the book.
type ContentFile struct {
	// ID is the manifest item ID.
	ID string `json:"id"`

	// Href is the ZIP-internal path of the document.
	Href string `json:"href"`

	// MediaType is the manifest media-type of the document.
	MediaType string `json:"media_type"`

	// Linear indicates whether the document is part of the linear reading order.
	Linear bool `json:"linear"`
}

// spineItem represents an entry in the OPF <spine> element.
type spineItem struct {
	// ID is the manifest item ID referenced by this spine entry.
	ID string

	// Href is the content file path relative to the OPF file.
	Href string

	// MediaType is the MIME type of the referenced content file.
	MediaType string

	// Linear indicates whether this item is part of the linear reading order.
	// Items with linear="no" in the OPF are non-linear.
	Linear bool

	// IDRef is the idref attribute value from the <itemref> element.
	IDRef string
}

// manifestItem represents an entry in the OPF <manifest> element.
type manifestItem struct {
	ID        string
	Href      string
	MediaType string
}

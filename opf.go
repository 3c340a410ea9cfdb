package epublang

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// dcNamespace is the Dublin Core elements namespace used by OPF metadata.
const dcNamespace = "http://purl.org/dc/elements/1.1/"

// opfPackage represents the root <package> element of an OPF file.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`

	// Languages holds the dc:language values in document order, read by
	// scanOPFLanguages so the reader and setOPFLanguage agree on them.
	Languages []string `xml:"-"`
}

// opfMetadata holds the raw metadata elements from the OPF file.
type opfMetadata struct {
	Titles []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Metas  []opfMeta      `xml:"meta"`
}

// opfDCElement holds a Dublin Core element.
type opfDCElement struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr"`
}

// opfMeta represents a <meta> element in the OPF metadata.
// ePub 2: <meta name="..." content="..."/>
// ePub 3: <meta property="..." refines="...">value</meta>
type opfMeta struct {
	Name     string `xml:"name,attr"`
	Content  string `xml:"content,attr"`
	Property string `xml:"property,attr"`
	Refines  string `xml:"refines,attr"`
	Value    string `xml:",chardata"`
}

// opfManifest wraps the <manifest> element.
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents a single <item> in the manifest.
type opfManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// opfSpine wraps the <spine> element.
type opfSpine struct {
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

// opfSpineItemRef represents a single <itemref> in the spine.
type opfSpineItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// newOPFDecoder returns a lenient decoder for packaging documents, which in
// the wild carry HTML named entities and unbound prefixes.
func newOPFDecoder(body []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false
	d.Entity = xml.HTMLEntity
	return d
}

// parseOPF parses the OPF file content and returns the parsed package structure.
func parseOPF(data []byte) (*opfPackage, error) {
	body := stripBOM(data)

	var pkg opfPackage
	if err := newOPFDecoder(body).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("epublang: parse OPF: %w", err)
	}

	scan, err := scanOPFLanguages(body)
	if err != nil {
		return nil, err
	}
	for _, l := range scan.languages {
		pkg.Languages = append(pkg.Languages, l.value)
	}

	if pkg.Version == "" {
		// Default to 2.0 if version attribute is missing.
		pkg.Version = "2.0"
	}

	return &pkg, nil
}

// buildManifestMap creates a lookup map keyed by manifest item ID.
func buildManifestMap(manifest opfManifest) map[string]*manifestItem {
	byID := make(map[string]*manifestItem, len(manifest.Items))
	for _, item := range manifest.Items {
		byID[item.ID] = &manifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
	}
	return byID
}

// buildSpine creates a slice of spineItem from the parsed OPF spine,
// resolving manifest references for href and media-type.
func buildSpine(spine opfSpine, manifestByID map[string]*manifestItem) []spineItem {
	items := make([]spineItem, 0, len(spine.ItemRefs))

	for _, ref := range spine.ItemRefs {
		si := spineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		}
		if mi, ok := manifestByID[ref.IDRef]; ok {
			si.ID = mi.ID
			si.Href = mi.Href
			si.MediaType = mi.MediaType
		}
		items = append(items, si)
	}

	return items
}

// isMetadataElement reports whether local names an OPF metadata container.
// OPF 2.0 files may still nest Dublin Core inside the legacy <dc-metadata>.
func isMetadataElement(local string) bool {
	return local == "metadata" || local == "dc-metadata"
}

// languageSpan locates one language element of the metadata by byte offset.
type languageSpan struct {
	name        xml.Name
	tagStart    int // '<' of the start tag
	textStart   int // just past the start tag
	textEnd     int // '<' of the end tag
	selfClosing bool
	value       string
}

// opfLanguageScan is the result of scanOPFLanguages.
type opfLanguageScan struct {
	dcPrefix      string // first prefix bound to the Dublin Core namespace
	languages     []languageSpan
	metadataEnd   int // offset of the closing metadata tag; -1 when absent
	metadataEmpty bool
}

// scanOPFLanguages walks the raw tokens of an OPF body and records every
// element with local name "language" inside <metadata> (or a nested
// <dc-metadata>), whatever its prefix. Scanning stops at the end of the
// outermost metadata element.
func scanOPFLanguages(body []byte) (opfLanguageScan, error) {
	scan := opfLanguageScan{metadataEnd: -1}
	d := newOPFDecoder(body)

	var (
		metadataDepth int
		depth         int
		current       *languageSpan
		text          strings.Builder
	)
	for {
		start := int(d.InputOffset())
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			return scan, nil
		}
		if err != nil {
			return scan, fmt.Errorf("epublang: scan OPF: %w", err)
		}
		end := int(d.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" && strings.TrimSpace(attr.Value) == dcNamespace && scan.dcPrefix == "" {
					scan.dcPrefix = attr.Name.Local
				}
			}
			if metadataDepth == 0 {
				if isMetadataElement(t.Name.Local) {
					metadataDepth = depth
				}
				continue
			}
			if current == nil && t.Name.Local == "language" {
				current = &languageSpan{name: t.Name, tagStart: start, textStart: end}
				text.Reset()
			}

		case xml.CharData:
			if current != nil {
				text.Write(t)
			}

		case xml.EndElement:
			switch {
			case current != nil && t.Name == current.name:
				current.textEnd = start
				current.selfClosing = start == current.textStart &&
					bytes.HasSuffix(body[current.tagStart:current.textStart], []byte("/>"))
				current.value = strings.TrimSpace(text.String())
				scan.languages = append(scan.languages, *current)
				current = nil
			case metadataDepth > 0 && depth == metadataDepth && isMetadataElement(t.Name.Local):
				scan.metadataEnd = start
				scan.metadataEmpty = start == end
				return scan, nil
			}
			depth--
		}
	}
}

// setOPFLanguage returns a copy of the OPF document data with the text of
// the first language element of the metadata replaced by lang. When the
// metadata has none, a dc:language element is inserted before </metadata>.
// All other bytes of the document are preserved.
func setOPFLanguage(data []byte, lang string) ([]byte, error) {
	bomLen := len(data) - len(stripBOM(data))
	body := data[bomLen:]

	scan, err := scanOPFLanguages(body)
	if err != nil {
		return nil, err
	}

	if len(scan.languages) > 0 {
		l := scan.languages[0]
		if !l.selfClosing {
			return splice(data, bomLen+l.textStart, bomLen+l.textEnd, escapeText(lang)), nil
		}
		// <dc:language id="x"/> keeps its start tag and gains a body.
		open := bytes.TrimRight(bytes.TrimSuffix(body[l.tagStart:l.textStart], []byte("/>")), " \t\r\n")
		var element bytes.Buffer
		element.Write(open)
		element.WriteString(">")
		element.Write(escapeText(lang))
		element.WriteString("</" + qualifiedName(l.name) + ">")
		return splice(data, bomLen+l.tagStart, bomLen+l.textStart, element.Bytes()), nil
	}

	switch {
	case scan.metadataEnd < 0:
		return nil, fmt.Errorf("epublang: OPF has no metadata element: %w", ErrInvalidEPub)
	case scan.metadataEmpty:
		return nil, fmt.Errorf("epublang: OPF metadata element is empty: %w", ErrInvalidEPub)
	}

	var element []byte
	if scan.dcPrefix != "" {
		element = languageElement(scan.dcPrefix+":language", lang, "")
	} else {
		element = languageElement("dc:language", lang, dcNamespace)
	}
	return splice(data, bomLen+scan.metadataEnd, bomLen+scan.metadataEnd, element), nil
}

// qualifiedName renders a raw (unresolved) XML name as prefix:local.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// languageElement renders <name>lang</name>, declaring the Dublin Core
// namespace on the element when xmlnsDC is non-empty.
func languageElement(name, lang, xmlnsDC string) []byte {
	var buf bytes.Buffer
	buf.WriteString("<" + name)
	if xmlnsDC != "" {
		prefix, _, _ := strings.Cut(name, ":")
		buf.WriteString(` xmlns:` + prefix + `="` + xmlnsDC + `"`)
	}
	buf.WriteString(">")
	buf.Write(escapeText(lang))
	buf.WriteString("</" + name + ">")
	return buf.Bytes()
}

func escapeText(s string) []byte {
	var buf bytes.Buffer
	// EscapeText only fails when the underlying writer does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.Bytes()
}

// splice returns data with data[start:end] replaced by repl.
func splice(data []byte, start, end int, repl []byte) []byte {
	out := make([]byte, 0, len(data)-(end-start)+len(repl))
	out = append(out, data[:start]...)
	out = append(out, repl...)
	out = append(out, data[end:]...)
	return out
}

package epublang

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// zipEntry is one file of a test archive, written in slice order.
type zipEntry struct {
	name    string
	content string
	method  uint16
}

// buildTestZip creates an in-memory ZIP archive from the provided files map
// (path → content) and returns a *zip.Reader over the resulting bytes.
// It calls t.Fatal on any error.
func buildTestZip(t *testing.T, files map[string]string) *zip.Reader {
	t.Helper()
	entries := make([]zipEntry, 0, len(files))
	for name, content := range files {
		entries = append(entries, zipEntry{name: name, content: content})
	}
	data := buildZipBytes(t, entries)
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildTestZip: open reader: %v", err)
	}
	return r
}

// buildZipBytes writes entries in order and returns the archive bytes.
// Entries without a method are deflated.
func buildZipBytes(t *testing.T, entries []zipEntry) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		method := e.method
		if method == 0 && e.name != "mimetype" {
			method = zip.Deflate
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("buildZipBytes: create %s: %v", e.name, err)
		}
		if _, err := io.WriteString(fw, e.content); err != nil {
			t.Fatalf("buildZipBytes: write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildZipBytes: close writer: %v", err)
	}
	return buf.Bytes()
}

// openTestBook builds an archive from entries and opens it with NewReader.
func openTestBook(t *testing.T, entries []zipEntry) *Book {
	t.Helper()
	data := buildZipBytes(t, entries)
	book, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	t.Cleanup(func() { book.Close() })
	return book
}

// writeTestBookFile writes entries to a temporary .epub file and returns its path.
func writeTestBookFile(t *testing.T, entries []zipEntry) string {
	t.Helper()
	fp := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(fp, buildZipBytes(t, entries), 0o644); err != nil {
		t.Fatalf("writeTestBookFile: %v", err)
	}
	return fp
}

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// testOPF renders a packaging document declaring lang (omitted when empty)
// with a spine of chapters c1..cN.
func testOPF(lang, writingMode string, chapters int) string {
	var md, manifest, spine bytes.Buffer
	md.WriteString(`<dc:title>測試之書</dc:title>`)
	if lang != "" {
		md.WriteString(`<dc:language>` + lang + `</dc:language>`)
	}
	if writingMode != "" {
		md.WriteString(`<meta name="primary-writing-mode" content="` + writingMode + `"/>`)
	}
	for i := 1; i <= chapters; i++ {
		id := "c" + string(rune('0'+i))
		manifest.WriteString(`<item id="` + id + `" href="text/` + id + `.xhtml" media-type="application/xhtml+xml"/>`)
		spine.WriteString(`<itemref idref="` + id + `"/>`)
	}
	manifest.WriteString(`<item id="css" href="style.css" media-type="text/css"/>`)
	return `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + md.String() + `</metadata>
  <manifest>` + manifest.String() + `</manifest>
  <spine>` + spine.String() + `</spine>
</package>`
}

// testChapter renders an XHTML content document with lang on its root element.
func testChapter(lang string) string {
	attr := ""
	if lang != "" {
		attr = ` xml:lang="` + lang + `" lang="` + lang + `"`
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"` + attr + `><head><title>t</title></head><body><p>內文</p></body></html>`
}

// testBookEntries returns a complete book declaring opfLang whose chapters
// declare chapterLangs in spine order.
func testBookEntries(opfLang, writingMode string, chapterLangs ...string) []zipEntry {
	entries := []zipEntry{
		{name: "mimetype", content: expectedMimetype, method: zip.Store},
		{name: "META-INF/container.xml", content: testContainerXML},
		{name: "OEBPS/content.opf", content: testOPF(opfLang, writingMode, len(chapterLangs))},
		{name: "OEBPS/style.css", content: "body { margin: 0 }"},
	}
	for i, lang := range chapterLangs {
		id := "c" + string(rune('1'+i))
		entries = append(entries, zipEntry{name: "OEBPS/text/" + id + ".xhtml", content: testChapter(lang)})
	}
	return entries
}

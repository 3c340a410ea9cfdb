package epublang

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
)

// expectedMimetype is the required content of the "mimetype" file in a valid ePub.
const expectedMimetype = "application/epub+zip"

// contentMediaTypes lists the manifest media-types treated as markup documents.
var contentMediaTypes = map[string]bool{
	"application/xhtml+xml": true,
	"text/html":             true,
	"application/xml":       true,
	"text/x-oeb1-document":  true,
}

// Book is an opened ePub archive.
// Use Open or NewReader to create a Book instance.
//
// A Book is not safe for concurrent use by multiple goroutines.
type Book struct {
	zip      *zip.Reader
	index    *zipIndex
	closer   io.Closer // non-nil only when created via Open()
	opfPath  string
	opfData  []byte
	spine    []spineItem
	metadata Metadata
	warnings []string

	contentLanguages LanguageCounts
	languagesScanned bool
}

// Open opens an ePub file at the given path.
// The caller must call Close when done reading from the book.
func Open(path string) (*Book, error) {
	zrc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("epublang: open %s: %w", path, err)
	}

	b, err := initBook(&zrc.Reader, zrc)
	if err != nil {
		zrc.Close()
		return nil, err
	}
	return b, nil
}

// NewReader creates a Book from an io.ReaderAt with the given size.
// The caller is responsible for the lifetime of r; Close only cleans
// up internal state.
func NewReader(r io.ReaderAt, size int64) (*Book, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("epublang: open zip: %w", err)
	}

	return initBook(zr, nil)
}

// initBook performs common initialisation: mimetype validation, container
// parsing, DRM detection and OPF parsing.
func initBook(zr *zip.Reader, closer io.Closer) (*Book, error) {
	b := &Book{
		zip:    zr,
		index:  newZipIndex(zr),
		closer: closer,
	}

	b.validateMimetype()

	opfPath, err := locateOPF(b.index)
	if err != nil {
		return nil, err
	}
	b.opfPath = opfPath

	switch inspectEncryption(b.index) {
	case encryptionDRM:
		return nil, ErrDRMProtected
	case encryptionFontsOnly:
		b.warnings = append(b.warnings, "font obfuscation detected; obfuscated fonts are copied unchanged")
	}

	opfFile := b.index.find(opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("epublang: OPF file not found in archive: %s: %w", opfPath, ErrInvalidEPub)
	}
	b.opfData, err = readZipFile(opfFile)
	if err != nil {
		return nil, fmt.Errorf("epublang: read OPF file: %w", err)
	}
	// Rewrites must target the entry that was actually read.
	b.opfPath = opfFile.Name

	pkg, err := parseOPF(b.opfData)
	if err != nil {
		return nil, err
	}
	b.spine = buildSpine(pkg.Spine, buildManifestMap(pkg.Manifest))
	b.metadata = extractMetadata(pkg)

	return b, nil
}

// validateMimetype checks that the first ZIP entry is named "mimetype" and
// contains "application/epub+zip". Deviations are recorded as warnings;
// a rewritten book always gets a correct mimetype entry.
func (b *Book) validateMimetype() {
	if len(b.zip.File) == 0 {
		b.warnings = append(b.warnings, "empty ZIP archive; mimetype entry missing")
		return
	}

	first := b.zip.File[0]
	if first.Name != "mimetype" {
		b.warnings = append(b.warnings, "first ZIP entry is not \"mimetype\"")
		return
	}

	data, err := readZipFile(first)
	if err != nil {
		b.warnings = append(b.warnings, fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}

	if strings.TrimSpace(string(data)) != expectedMimetype {
		b.warnings = append(b.warnings, fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// Close releases resources held by the Book. When the Book was created via
// Open, Close closes the underlying file. Close is idempotent.
func (b *Book) Close() error {
	if b.closer != nil {
		err := b.closer.Close()
		b.closer = nil
		return err
	}
	return nil
}

// ReadFile reads a file from the ePub archive by its ZIP-internal path.
// The lookup is case-insensitive as a fallback.
func (b *Book) ReadFile(name string) ([]byte, error) {
	f := b.index.find(name)
	if f == nil {
		return nil, ErrFileNotFound
	}
	return readZipFile(f)
}

// OPFPath returns the ZIP-internal path of the packaging document.
func (b *Book) OPFPath() string {
	return b.opfPath
}

// Metadata returns the extracted metadata from the packaging document.
func (b *Book) Metadata() Metadata {
	md := b.metadata
	md.Titles = append([]string(nil), b.metadata.Titles...)
	md.Language = append([]string(nil), b.metadata.Language...)
	return md
}

// Warnings returns the list of non-fatal warnings accumulated so far.
func (b *Book) Warnings() []string {
	return append([]string(nil), b.warnings...)
}

// ContentFiles returns the markup documents of the spine in reading order.
// Spine entries that reference missing manifest items, non-markup resources
// or paths outside the archive root are skipped.
func (b *Book) ContentFiles() []ContentFile {
	files := make([]ContentFile, 0, len(b.spine))
	for _, si := range b.spine {
		if si.Href == "" {
			continue
		}
		mediaType := strings.ToLower(strings.TrimSpace(si.MediaType))
		if mediaType != "" && !contentMediaTypes[mediaType] {
			continue
		}
		href := resolveRelativePath(b.opfPath, si.Href)
		if href == "" {
			continue
		}
		files = append(files, ContentFile{
			ID:        si.ID,
			Href:      href,
			MediaType: si.MediaType,
			Linear:    si.Linear,
		})
	}
	return files
}

// ContentLanguages returns the frequency table of languages declared by the
// book's content documents. Each document contributes the language of its
// root element (xml:lang before lang). Unreadable documents are skipped
// with a warning. The table is computed once per Book.
func (b *Book) ContentLanguages() LanguageCounts {
	if b.languagesScanned {
		return append(LanguageCounts(nil), b.contentLanguages...)
	}

	var tags []string
	for _, cf := range b.ContentFiles() {
		data, err := b.ReadFile(cf.Href)
		if err != nil {
			b.warnings = append(b.warnings, fmt.Sprintf("cannot read content file %s: %v", cf.Href, err))
			continue
		}
		lang, err := documentLanguage(data)
		if err != nil {
			b.warnings = append(b.warnings, fmt.Sprintf("cannot parse content file %s: %v", cf.Href, err))
			continue
		}
		tags = append(tags, lang)
	}

	b.contentLanguages = countLanguages(tags)
	b.languagesScanned = true
	return append(LanguageCounts(nil), b.contentLanguages...)
}

package epublang

import (
	"archive/zip"
	"fmt"
	"io"
)

// WriteWithLanguage writes a copy of the book to w with the packaging
// document's first dc:language set to lang. An empty lang leaves the
// packaging document untouched.
//
// The copy starts with an uncompressed "mimetype" entry. Every other entry is
// copied byte-for-byte in archive order; only the OPF entry is re-encoded.
func (b *Book) WriteWithLanguage(w io.Writer, lang string) error {
	opf := b.opfData
	if lang != "" {
		var err error
		if opf, err = setOPFLanguage(b.opfData, lang); err != nil {
			return err
		}
	}

	zw := zip.NewWriter(w)
	if err := writeMimetype(zw); err != nil {
		return err
	}

	var err error
	for _, f := range b.zip.File {
		switch f.Name {
		case "mimetype":
			continue
		case b.opfPath:
			err = writeZipEntry(zw, f.FileHeader, opf)
		default:
			err = copyZipEntry(zw, f)
		}
		if err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("epublang: finish archive: %w", err)
	}
	return nil
}

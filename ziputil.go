package epublang

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
)

// maxDecompressSize caps the decompressed size of a single archive entry.
const maxDecompressSize int64 = 256 * 1024 * 1024

// zipIndex looks up archive entries by path: an exact match first, then a
// case-insensitive one. When names collide the earlier entry wins.
type zipIndex struct {
	files []*zip.File
	exact map[string]*zip.File
	lower map[string]*zip.File
}

func newZipIndex(zr *zip.Reader) *zipIndex {
	idx := &zipIndex{
		files: zr.File,
		exact: make(map[string]*zip.File, len(zr.File)),
		lower: make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, ok := idx.exact[f.Name]; !ok {
			idx.exact[f.Name] = f
		}
		key := strings.ToLower(f.Name)
		if _, ok := idx.lower[key]; !ok {
			idx.lower[key] = f
		}
	}
	return idx
}

// find returns the entry named name, or nil.
func (idx *zipIndex) find(name string) *zip.File {
	if f, ok := idx.exact[name]; ok {
		return f
	}
	return idx.lower[strings.ToLower(name)]
}

// resolveRelativePath resolves a manifest href against the directory of the
// packaging document at basePath. Percent-escapes are decoded and any
// fragment is dropped. Absolute hrefs and results outside the archive root
// yield "".
func resolveRelativePath(basePath, href string) string {
	href, _, _ = strings.Cut(strings.TrimSpace(href), "#")
	if href == "" || strings.HasPrefix(href, "/") {
		return ""
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	resolved := path.Join(path.Dir(basePath), href)
	if !isSafePath(resolved) {
		return ""
	}
	return resolved
}

// isSafePath reports whether the archive path p stays inside the archive root.
func isSafePath(p string) bool {
	p = path.Clean(p)
	return !strings.HasPrefix(p, "/") && p != ".." && !strings.HasPrefix(p, "../")
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// stripBOM drops a leading UTF-8 byte order mark.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// readZipFile reads an entry with the default size cap.
func readZipFile(f *zip.File) ([]byte, error) {
	return readZipFileWithLimit(f, maxDecompressSize)
}

// readZipFileWithLimit reads an entry, refusing unsafe names and entries
// whose declared or actual size exceeds limit bytes.
func readZipFileWithLimit(f *zip.File, limit int64) ([]byte, error) {
	if !isSafePath(f.Name) {
		return nil, fmt.Errorf("epublang: unsafe zip entry path: %s", f.Name)
	}
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("epublang: zip entry %s too large: %d bytes (max %d)", f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("epublang: open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	// Headers can lie; read one byte past the limit to catch it.
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("epublang: read zip entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("epublang: zip entry %s exceeds limit (%d bytes)", f.Name, limit)
	}
	return data, nil
}

// copyZipEntry copies f into zw without recompressing it. The header, including
// the compression method and modification time, is preserved.
func copyZipEntry(zw *zip.Writer, f *zip.File) error {
	if err := zw.Copy(f); err != nil {
		return fmt.Errorf("epublang: copy zip entry %s: %w", f.Name, err)
	}
	return nil
}

// writeZipEntry writes data as a new entry modelled on hdr. The method from
// hdr is kept; sizes and CRC are recomputed by the writer.
func writeZipEntry(zw *zip.Writer, hdr zip.FileHeader, data []byte) error {
	hdr.CompressedSize64 = 0
	hdr.UncompressedSize64 = 0
	hdr.CRC32 = 0
	w, err := zw.CreateHeader(&hdr)
	if err != nil {
		return fmt.Errorf("epublang: create zip entry %s: %w", hdr.Name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("epublang: write zip entry %s: %w", hdr.Name, err)
	}
	return nil
}

// writeMimetype writes the uncompressed "mimetype" entry that must lead an ePub archive.
func writeMimetype(zw *zip.Writer) error {
	return writeZipEntry(zw, zip.FileHeader{Name: "mimetype", Method: zip.Store}, []byte(expectedMimetype))
}

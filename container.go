package epublang

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// opfMediaType is the media-type of the packaging document rootfile.
const opfMediaType = "application/oebps-package+xml"

// containerXML models the META-INF/container.xml file used to locate the OPF.
type containerXML struct {
	XMLName   xml.Name `xml:"container"`
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// locateOPF returns the ZIP-internal path of the packaging document.
//
// container.xml is preferred; the first rootfile with the OPF media-type
// wins, then the first non-empty rootfile. Without container.xml the first
// ".opf" entry is used. A wrapped ErrInvalidEPub means no OPF path exists.
func locateOPF(idx *zipIndex) (string, error) {
	f := idx.find(containerPath)
	if f == nil {
		for _, entry := range idx.files {
			if strings.HasSuffix(strings.ToLower(entry.Name), ".opf") {
				return entry.Name, nil
			}
		}
		return "", fmt.Errorf("epublang: no OPF file found in archive: %w", ErrInvalidEPub)
	}

	data, err := readZipFile(f)
	if err != nil {
		return "", fmt.Errorf("epublang: read container.xml: %w", err)
	}

	var c containerXML
	if err := xml.Unmarshal(stripBOM(data), &c); err != nil {
		return "", fmt.Errorf("epublang: parse container.xml: %w", err)
	}

	var fallback string
	for _, rf := range c.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), opfMediaType) {
			return fullPath, nil
		}
		if fallback == "" {
			fallback = fullPath
		}
	}
	if fallback == "" {
		return "", fmt.Errorf("epublang: container.xml has no usable rootfile: %w", ErrInvalidEPub)
	}
	return fallback, nil
}

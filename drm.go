package epublang

import (
	"encoding/xml"
	"strings"
)

const (
	// encryptionFilePath is the standard path for the encryption descriptor.
	encryptionFilePath = "META-INF/encryption.xml"

	// sinfFilePath indicates Apple FairPlay DRM.
	sinfFilePath = "META-INF/sinf.xml"
)

// fontObfuscationAlgorithms lists algorithm URIs that mangle embedded fonts
// without encrypting content. These entries survive a rewrite unchanged.
var fontObfuscationAlgorithms = map[string]bool{
	"http://www.idpf.org/2008/embedding": true, // IDPF
	"http://ns.adobe.com/pdf/enc#RC":     true, // Adobe
}

type encryptionXML struct {
	XMLName       xml.Name `xml:"encryption"`
	EncryptedData []struct {
		EncryptionMethod struct {
			Algorithm string `xml:"Algorithm,attr"`
		} `xml:"EncryptionMethod"`
	} `xml:"EncryptedData"`
}

// encryptionState summarises META-INF/encryption.xml.
type encryptionState int

const (
	encryptionNone encryptionState = iota
	encryptionFontsOnly
	encryptionDRM
)

// inspectEncryption classifies the archive as unencrypted, font-obfuscated
// or DRM protected (Adobe ADEPT, Readium LCP, Apple FairPlay, or any other
// non-font EncryptedData entry). An unreadable descriptor counts as DRM.
func inspectEncryption(idx *zipIndex) encryptionState {
	if idx.find(sinfFilePath) != nil {
		return encryptionDRM
	}

	f := idx.find(encryptionFilePath)
	if f == nil {
		return encryptionNone
	}

	data, err := readZipFile(f)
	if err != nil {
		return encryptionDRM
	}

	var enc encryptionXML
	if err := xml.Unmarshal(stripBOM(data), &enc); err != nil {
		return encryptionDRM
	}

	state := encryptionNone
	for _, ed := range enc.EncryptedData {
		if !fontObfuscationAlgorithms[strings.TrimSpace(ed.EncryptionMethod.Algorithm)] {
			return encryptionDRM
		}
		state = encryptionFontsOnly
	}
	return state
}

package epublang

import "testing"

func encryptionDescriptor(algorithms ...string) string {
	s := `<encryption xmlns="urn:oasis:names:tc:opendocument:xmlns:container" xmlns:enc="http://www.w3.org/2001/04/xmlenc#">`
	for _, alg := range algorithms {
		s += `<enc:EncryptedData><enc:EncryptionMethod Algorithm="` + alg + `"/></enc:EncryptedData>`
	}
	return s + `</encryption>`
}

func TestInspectEncryption(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  encryptionState
	}{
		{"no descriptor", map[string]string{"mimetype": expectedMimetype}, encryptionNone},
		{"empty descriptor", map[string]string{encryptionFilePath: encryptionDescriptor()}, encryptionNone},
		{"idpf font obfuscation", map[string]string{encryptionFilePath: encryptionDescriptor("http://www.idpf.org/2008/embedding")}, encryptionFontsOnly},
		{"adobe font obfuscation", map[string]string{encryptionFilePath: encryptionDescriptor("http://ns.adobe.com/pdf/enc#RC", "http://www.idpf.org/2008/embedding")}, encryptionFontsOnly},
		{"aes content encryption", map[string]string{encryptionFilePath: encryptionDescriptor("http://www.w3.org/2001/04/xmlenc#aes128-cbc")}, encryptionDRM},
		{"fonts plus content", map[string]string{encryptionFilePath: encryptionDescriptor("http://www.idpf.org/2008/embedding", "http://www.w3.org/2001/04/xmlenc#aes256-cbc")}, encryptionDRM},
		{"apple fairplay", map[string]string{sinfFilePath: "<sinf/>"}, encryptionDRM},
		{"unparseable descriptor", map[string]string{encryptionFilePath: "<encryption"}, encryptionDRM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspectEncryption(newZipIndex(buildTestZip(t, tt.files))); got != tt.want {
				t.Errorf("inspectEncryption() = %v; want %v", got, tt.want)
			}
		})
	}
}

package epublang

import "testing"

func TestDocumentLanguage(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "xml:lang on html",
			doc:  `<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml" xml:lang="zh-TW"><body/></html>`,
			want: "zh-TW",
		},
		{
			name: "xml:lang wins over lang",
			doc:  `<html xml:lang="zh-TW" lang="zh"><body></body></html>`,
			want: "zh-TW",
		},
		{
			name: "lang only",
			doc:  `<html lang=" ja "><body></body></html>`,
			want: "ja",
		},
		{
			name: "empty xml:lang falls back to lang",
			doc:  `<html xml:lang="" lang="en"><body></body></html>`,
			want: "en",
		},
		{
			name: "body when html has none",
			doc:  `<html><head><title>t</title></head><body xml:lang="zh-TW"><p lang="en">x</p></body></html>`,
			want: "zh-TW",
		},
		{
			name: "inner elements ignored",
			doc:  `<html><head></head><body><p lang="en">x</p></body></html>`,
			want: "",
		},
		{
			name: "doctype and BOM",
			doc:  "\xEF\xBB\xBF<!DOCTYPE html><html lang=\"zh-Hant\"><body></body></html>",
			want: "zh-Hant",
		},
		{
			name: "uppercase attribute names",
			doc:  `<HTML XML:LANG="zh-TW"><BODY></BODY></HTML>`,
			want: "zh-TW",
		},
		{
			name: "no markup",
			doc:  "plain text",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := documentLanguage([]byte(tt.doc))
			if err != nil {
				t.Fatalf("documentLanguage: %v", err)
			}
			if got != tt.want {
				t.Errorf("documentLanguage() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentLanguage_TestChapter(t *testing.T) {
	got, err := documentLanguage([]byte(testChapter("zh-TW")))
	if err != nil {
		t.Fatalf("documentLanguage: %v", err)
	}
	if got != "zh-TW" {
		t.Errorf("documentLanguage() = %q; want zh-TW", got)
	}
}

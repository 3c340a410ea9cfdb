package epublang

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// documentLanguage returns the language declared by an XHTML content
// document. The root <html> element is consulted first, then <body>; on each
// element xml:lang takes precedence over lang. An empty string means no
// language is declared.
func documentLanguage(htmlData []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(stripBOM(htmlData)))

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			err := tokenizer.Err()
			if errors.Is(err, io.EOF) {
				return "", nil
			}
			return "", err

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			a := atom.Lookup(tn)
			if a != atom.Html && a != atom.Body {
				continue
			}
			if hasAttr {
				if lang := langAttribute(tokenizer); lang != "" {
					return lang, nil
				}
			}
			if a == atom.Body {
				return "", nil
			}
		}
	}
}

// langAttribute reads the remaining attributes of the current tag and
// returns xml:lang, or lang when xml:lang is absent or empty.
func langAttribute(tokenizer *html.Tokenizer) string {
	var xmlLang, lang string
	for {
		key, val, more := tokenizer.TagAttr()
		switch strings.ToLower(string(key)) {
		case "xml:lang":
			xmlLang = strings.TrimSpace(string(val))
		case "lang":
			lang = strings.TrimSpace(string(val))
		}
		if !more {
			break
		}
	}
	if xmlLang != "" {
		return xmlLang
	}
	return lang
}

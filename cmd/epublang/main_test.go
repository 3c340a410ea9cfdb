package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/epublang"
)

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package version="3.0" xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>測試書</dc:title>
    <dc:language>zh</dc:language>
    <meta property="primary-writing-mode">vertical-rl</meta>
  </metadata>
  <manifest>
    <item id="c1" href="c1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="c2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`

const testChapter = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="zh-TW" lang="zh-TW"><head><title>c</title></head><body><p>內容</p></body></html>`

// writeTestBook writes a minimal two-chapter Traditional Chinese ePub to dir.
func writeTestBook(t *testing.T, dir string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	entries := []struct{ name, content string }{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", `<?xml version="1.0"?><container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container"><rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles></container>`},
		{"OEBPS/content.opf", testOPF},
		{"OEBPS/c1.xhtml", testChapter},
		{"OEBPS/c2.xhtml", testChapter},
	}
	for _, e := range entries {
		fw, err := zw.Create(e.name)
		if err != nil {
			t.Fatalf("create %s: %v", e.name, err)
		}
		if _, err := io.WriteString(fw, e.content); err != nil {
			t.Fatalf("write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	path := filepath.Join(dir, "book.epub")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write book: %v", err)
	}
	return path
}

// runCLI executes the root command with an isolated HOME and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	out, _, err := runCLI(t, "normalize", "zh-TW", "ZH-tw", "zh-hant", "zh", "en-US")
	if err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	want := "zh-hant\nzh-hant\nzh-hant\nzh\nen-US\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestNormalizeCommandRequiresArgs(t *testing.T) {
	if _, _, err := runCLI(t, "normalize"); err == nil {
		t.Fatal("expected error without tags")
	}
}

func TestFixCommandWritesDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeTestBook(t, dir)

	out, logs, err := runCLI(t, "fix", input, "--log-format", "json")
	if err != nil {
		t.Fatalf("fix returned error: %v (logs %s)", err, logs)
	}
	output := filepath.Join(dir, "book_kfx_ready.epub")
	if !strings.Contains(out, output+": zh -> zh-hant") {
		t.Fatalf("unexpected stdout %q", out)
	}

	book, err := epublang.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer book.Close()
	if got := book.Metadata().PrimaryLanguage(); got != "zh-hant" {
		t.Fatalf("output language = %q, want zh-hant", got)
	}

	var messages []string
	for _, line := range strings.Split(strings.TrimSpace(logs), "\n") {
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		messages = append(messages, record["msg"].(string))
	}
	if len(messages) < 2 ||
		!strings.HasPrefix(messages[0], `Changed language from "zh-TW" to "zh-hant"`) ||
		messages[1] != "Changed EPUB language from 'zh' to 'zh-hant'" {
		t.Fatalf("unexpected log messages %q", messages)
	}
}

func TestFixCommandRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeTestBook(t, dir)
	output := filepath.Join(dir, "out.epub")
	if err := os.WriteFile(output, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed output: %v", err)
	}

	_, _, err := runCLI(t, "fix", input, "-o", output)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already-exists error, got %v", err)
	}
	data, _ := os.ReadFile(output)
	if string(data) != "keep" {
		t.Fatal("existing output was modified")
	}

	if _, _, err := runCLI(t, "fix", input, "-o", output, "--force"); err != nil {
		t.Fatalf("fix --force returned error: %v", err)
	}
}

func TestFixCommandNoFixSuffixKeepsDeclared(t *testing.T) {
	dir := t.TempDir()
	input := writeTestBook(t, dir)
	output := filepath.Join(dir, "plain.epub")

	out, _, err := runCLI(t, "fix", input, "-o", output, "--no-fix-suffix")
	if err != nil {
		t.Fatalf("fix returned error: %v", err)
	}
	if !strings.Contains(out, "language unchanged (zh)") {
		t.Fatalf("unexpected stdout %q", out)
	}
}

func TestInspectCommandJSON(t *testing.T) {
	input := writeTestBook(t, t.TempDir())

	out, _, err := runCLI(t, "inspect", input, "--json")
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}
	var report epublang.LanguageReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Resolution.Language != "zh-hant" || !report.Resolution.Changed {
		t.Fatalf("unexpected resolution %+v", report.Resolution)
	}
	if len(report.Content) != 1 || report.Content[0].Tag != "zh-TW" || report.Content[0].Files != 2 {
		t.Fatalf("unexpected content table %+v", report.Content)
	}
	if report.WritingMode != "vertical-rl" {
		t.Fatalf("writing mode = %q", report.WritingMode)
	}
}

func TestInspectCommandTable(t *testing.T) {
	input := writeTestBook(t, t.TempDir())

	out, _, err := runCLI(t, "inspect", input)
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}
	for _, want := range []string{"Declared:     zh", "Writing mode: vertical-rl", "Resolved:     zh-hant (changed: yes)", "zh-TW", "Kindle tag"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	out, _, err := runCLI(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}
	if _, _, err := runCLI(t, "config", "init", path); err == nil {
		t.Fatal("expected error when config exists")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	input := writeTestBook(t, t.TempDir())
	if _, _, err := runCLI(t, "--config", path, "inspect", input); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestRenderTableAlignsNumberColumns(t *testing.T) {
	out := renderTable([]string{"Tag", "Files"}, [][]string{{"zh-TW", "2"}, {"en"}}, 1)
	if !strings.Contains(out, "│     2 │") {
		t.Errorf("number column not right-aligned:\n%s", out)
	}
	if !strings.Contains(out, "│ en    │       │") {
		t.Errorf("short row not padded:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Error("table without headers should render empty")
	}
}

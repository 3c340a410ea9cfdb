package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epublang"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect BOOK.epub",
		Short: "Show declared and content languages of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fixer, err := ctx.fixer(logger)
			if err != nil {
				return err
			}

			book, err := epublang.Open(args[0])
			if err != nil {
				return err
			}
			defer book.Close()

			report := fixer.Report(book)
			for _, warning := range book.Warnings() {
				logger.Warn("epub warning", "warning", warning)
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return renderReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderReport(w io.Writer, report epublang.LanguageReport) error {
	var b strings.Builder
	if report.Title != "" {
		fmt.Fprintf(&b, "Title:        %s\n", report.Title)
	}
	fmt.Fprintf(&b, "Declared:     %s\n", valueOrNone(strings.Join(report.Declared, ", ")))
	fmt.Fprintf(&b, "Writing mode: %s\n", valueOrNone(report.WritingMode))
	fmt.Fprintf(&b, "Resolved:     %s (changed: %s)\n", valueOrNone(report.Resolution.Language), yesNo(report.Resolution.Changed))

	if len(report.Content) > 0 {
		rows := make([][]string, 0, len(report.Content))
		for _, c := range report.Content {
			rows = append(rows, []string{c.Tag, strconv.Itoa(c.Files), epublang.NormalizeLanguage(c.Tag)})
		}
		b.WriteString("\n")
		b.WriteString(renderTable([]string{"Content language", "Files", "Kindle tag"}, rows, 1))
		b.WriteString("\n")
	} else {
		b.WriteString("\nNo content document declares a language.\n")
	}

	if len(report.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, note := range report.Notes {
			b.WriteString("  - ")
			b.WriteString(note)
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func valueOrNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

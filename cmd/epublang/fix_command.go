package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newFixCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var noFixSuffix bool
	var force bool

	cmd := &cobra.Command{
		Use:   "fix BOOK.epub",
		Short: "Write a copy of a book with its language prepared for Kindle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fixer, err := ctx.fixer(logger)
			if err != nil {
				return err
			}
			if noFixSuffix {
				fixer.FixLanguageSuffix = false
			}

			input := args[0]
			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = cfg.OutputPath(input)
			}

			if !force && !cfg.Output.Overwrite {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("output %s already exists; use --force to replace it", output)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("stat output: %w", err)
				}
			}

			res, err := fixer.FixFile(cmd.Context(), input, output)
			if err != nil {
				return err
			}

			if res.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", output, valueOrNone(res.Declared), res.Language)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: language unchanged (%s)\n", output, valueOrNone(res.Language))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output path (default: input stem plus output.suffix)")
	cmd.Flags().BoolVar(&noFixSuffix, "no-fix-suffix", false, "Keep the declared tag family instead of the dominant content tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing output file")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simp-lee/epublang"
)

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "normalize TAG...",
		Short:       "Print the Kindle form of each language tag",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, tag := range args {
				if _, err := fmt.Fprintln(out, epublang.NormalizeLanguage(tag)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

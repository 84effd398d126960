package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"meta/internal/diagfmt"
	"meta/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file",
		Short: "Dump the token stream of a source file",
		Long:  `Tokenize runs the meta scanner alone and prints every token, including notes and comments`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", filePath, err)
	}

	diags := result.Diags.Items()
	switch format {
	case "pretty":
		if len(diags) > 0 {
			opts := diagfmt.Options{Color: useColor(cmd, cmd.ErrOrStderr()), Context: true}
			diagfmt.Pretty(cmd.ErrOrStderr(), diags, result.Files, opts)
		}
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.Files)
	case "json":
		if len(diags) > 0 {
			if err := diagfmt.JSON(cmd.ErrOrStderr(), diags, result.Files, diagfmt.Options{Columns: true}); err != nil {
				return err
			}
		}
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

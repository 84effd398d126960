package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"meta/internal/driver"
	"meta/internal/layout"
	"meta/internal/pipeline"
	"meta/internal/project"
	"meta/internal/ui"
)

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("in", nil, "input file, repeatable; processed in order")
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().Bool("typedb", false, "also write src/meta_types.mp")
	cmd.Flags().Bool("pad-struct-tail", true, "round struct sizes up to their alignment")
	cmd.Flags().String("manifest", "", "path to meta.toml (default: search upwards when --in is absent)")
}

func runGenerate(cmd *cobra.Command, _ []string) (err error) {
	opts, err := generateOptions(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()
	stopProfiles, err := startProfiles(cmd)
	if err != nil {
		return err
	}
	defer stopProfiles()

	tui, err := wantTUI(cmd)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	var res *driver.Result
	if tui && !quiet {
		files := pipeline.DisplayFiles(opts.Inputs, opts.BaseDir)
		res, err = runGenerateWithUI(cmd.Context(), "meta", files, opts)
	} else {
		res, err = driver.Generate(cmd.Context(), opts)
	}
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d note(s), %d file(s) in %s\n",
			res.HeaderPath, res.Notes, len(res.Copies), res.Timings.Total().Round(time.Microsecond))
	}
	return nil
}

// generateOptions merges flags over the manifest. A manifest is used when
// --manifest is given, or when --in is absent and meta.toml is found.
func generateOptions(cmd *cobra.Command) (driver.Options, error) {
	flags := cmd.Flags()
	inputs, _ := flags.GetStringArray("in")
	out, _ := flags.GetString("out")
	typeDB, _ := flags.GetBool("typedb")
	pad, _ := flags.GetBool("pad-struct-tail")
	manifestPath, _ := flags.GetString("manifest")
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	opts := driver.Options{
		Inputs:         inputs,
		Out:            out,
		TypeDB:         typeDB,
		MaxDiagnostics: maxDiag,
	}

	if manifestPath == "" && len(inputs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return opts, err
		}
		found, ok, err := project.FindManifest(wd)
		if err != nil {
			return opts, err
		}
		if ok {
			manifestPath = found
		}
	}
	if manifestPath != "" {
		m, err := project.LoadManifest(manifestPath)
		if err != nil {
			return opts, err
		}
		opts.BaseDir = m.Root
		if len(inputs) == 0 {
			opts.Inputs = m.Inputs
		}
		if out == "" {
			opts.Out = m.Out
		}
		opts.TypeDB = typeDB || m.TypeDB
		if m.PadStructTail != nil && !flags.Changed("pad-struct-tail") {
			pad = *m.PadStructTail
		}
	}

	opts.Target = layout.LP64()
	opts.Target.PadStructTail = pad
	return opts, nil
}

type generateOutcome struct {
	result *driver.Result
	err    error
}

func runGenerateWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Generate(ctx, opts)
		outcomeCh <- generateOutcome{result: res, err: err}
		close(events)
	}()

	final, uiErr := runProgram(newProgressProgram(title, files, events))
	if ui.Interrupted(final) {
		cancel()
	}
	// после выхода UI события больше никто не читает
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

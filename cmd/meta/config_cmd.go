package main

import (
	"github.com/spf13/cobra"

	"meta/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with runtime config files",
	}
	check := &cobra.Command{
		Use:   "check --typedb db --var name=Type... file.cfg",
		Short: "Load a config file against a vars tree and print the result",
		Long: `check builds a vars tree over zeroed variables described by --var,
applies the config file and prints every value in config syntax.`,
		Args: cobra.ExactArgs(1),
		RunE: runConfigCheck,
	}
	addRuntimeFlags(check)
	cmd.AddCommand(check)
	return cmd
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	_, tree, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if err := config.Load(args[0], tree); err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if quiet {
		return nil
	}
	return config.Write(cmd.OutOrStdout(), tree)
}

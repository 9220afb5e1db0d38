package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/spyable/internal/cli"
	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/pkg/spyable"
)

func newGenerateCmd(a *app) *cobra.Command {
	var opts cli.RunOptions
	cmd := &cobra.Command{
		Use:   "generate [targets...]",
		Short: "Generate spies for @Spyable declarations",
		Long: `Scan Swift sources for @Spyable declarations and write one <Name>Spy.swift
file per declaration. Without targets the current directory is scanned
recursively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			d := a.diagnostics
			if !opts.Stdout {
				d.Header("Generating spies")
			}
			gen := cli.NewGenerator(a.config, d)
			gen.SetStdout(cmd.OutOrStdout())

			err := gen.Run(cmd.Context(), args, opts)
			summary := gen.GetSummary()
			if err != nil && summary.SourceFiles == 0 {
				return err
			}
			if opts.Stdout {
				return reported(err)
			}
			if opts.Check {
				if len(summary.StaleFiles) > 0 {
					d.Error("%d generated files are out of date", len(summary.StaleFiles))
				} else if err == nil {
					d.Success("All %d generated files are up to date", len(summary.UnchangedFiles))
				}
				return reported(err)
			}

			d.Summary("Generation Summary", summary.Stats())
			if len(summary.GeneratedFiles) > 0 {
				d.Section("Generated files")
				d.Indent()
				for _, file := range summary.GeneratedFiles {
					d.List("%s", file)
				}
				d.Unindent()
			}
			if err != nil {
				return errReported
			}
			d.GenerationComplete()
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.Stdout, "stdout", false, "Print generated files instead of writing them")
	flags.BoolVar(&opts.Check, "check", false, "Exit with status 1 when generated files are missing or stale")
	flags.StringP("output", "o", "", "Directory for generated files (default Spies/ next to each source)")
	flags.String("preprocessor-flag", "", "Wrap spies in #if FLAG unless the attribute names one")
	flags.IntP("concurrency", "j", 4, "Number of files processed in parallel")
	_ = a.viper.BindPFlag("output", flags.Lookup("output"))
	_ = a.viper.BindPFlag("preprocessor_flag", flags.Lookup("preprocessor-flag"))
	_ = a.viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var opts cli.RunOptions
	cmd := &cobra.Command{
		Use:   "describe <description.yaml>...",
		Short: "Generate spies from YAML or JSON declaration descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := cli.NewGenerator(a.config, a.diagnostics)
			gen.SetStdout(cmd.OutOrStdout())

			failed := false
			for _, path := range args {
				if err := gen.Describe(path, opts); err != nil {
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Stdout, "stdout", false, "Print generated files instead of writing them")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit with status 1 when generated files are missing or stale")
	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean [targets...]",
		Short: "Remove generated spy files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			removed, err := cli.NewCleaner().CleanGeneratedFiles(args, dryRun)
			for _, file := range removed {
				a.diagnostics.List("%s", file)
			}
			if err != nil {
				return err
			}
			if dryRun {
				a.diagnostics.Info("%d generated files would be removed", len(removed))
			} else {
				a.diagnostics.Success("Removed %d generated files", len(removed))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List files without removing them")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...]",
		Short: "Regenerate spies whenever Swift sources change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			gen := cli.NewGenerator(a.config, a.diagnostics)
			if err := gen.Run(cmd.Context(), args, cli.RunOptions{}); err != nil {
				a.diagnostics.Warn("Initial generation finished with errors")
			}

			roots, err := cli.ScanRoots(args)
			if err != nil {
				return err
			}
			w, err := cli.NewWatcher(gen, a.diagnostics)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Add(roots); err != nil {
				return err
			}

			a.diagnostics.Info("Watching %d directories, press Ctrl+C to stop", len(roots))
			return w.Run(cmd.Context())
		},
	}
	return cmd
}

func newSupportCmd(a *app) *cobra.Command {
	var toStdout bool
	cmd := &cobra.Command{
		Use:   "support [directory]",
		Short: "Write the Swift runtime used by generated spies",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if toStdout {
				_, err := cmd.OutOrStdout().Write([]byte(spyable.SupportSource()))
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return spyerrors.WrapFileSystemError("create", dir, err)
			}
			path := filepath.Join(dir, spyable.SupportFileName)
			if err := os.WriteFile(path, []byte(spyable.SupportSource()), 0o644); err != nil {
				return spyerrors.WrapFileSystemError("write", path, err)
			}
			a.diagnostics.Success("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the runtime instead of writing it")
	return cmd
}

// reported replaces err with errReported once its findings were printed
func reported(err error) error {
	if err != nil {
		return errReported
	}
	return nil
}

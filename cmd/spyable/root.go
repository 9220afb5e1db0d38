package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/spyable/internal/cli"
	spyerrors "github.com/toyz/spyable/internal/errors"
	"github.com/toyz/spyable/internal/utils"
)

// errReported marks a failure whose details were already printed
var errReported = spyerrors.New(spyerrors.GenerationErrorCode, "generation failed")

// app carries the state shared by every command
type app struct {
	viper       *viper.Viper
	config      *cli.Config
	diagnostics *utils.DiagnosticSystem
	stdout      io.Writer
	stderr      io.Writer
	configFile  string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{viper: cli.NewViper(), stdout: stdout, stderr: stderr}
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, a *app) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if a.diagnostics != nil {
		defer a.diagnostics.Sync()
	}
	if err == nil {
		return 0
	}
	if err != errReported {
		if a.diagnostics != nil {
			cli.NewDiagnosticReporter(a.diagnostics, "", false).ReportError(err)
		} else {
			io.WriteString(a.stderr, "error: "+err.Error()+"\n")
		}
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "spyable",
		Short: "Spyable - Swift test spy generator",
		Long: `Spyable generates test spies for Swift protocols, classes and structs
annotated with @Spyable.

Every spy records its calls in a State enum and gives the test control over
completion handlers, async continuations and Combine publishers.

Target patterns:
  ./...              Scan current directory and all subdirectories recursively
  ./Sources/App/...  Scan a directory and all its subdirectories
  ./Sources/App      Scan only the specific directory (no recursion)
  Service.swift      Scan a single file

Examples:
  spyable generate ./...                    # Generate every spy
  spyable generate --check ./...            # Fail when generated files are stale
  spyable generate --stdout Service.swift   # Print instead of writing
  spyable describe clock.yaml               # Generate from a declaration description
  spyable watch ./Sources/...               # Regenerate on change
  spyable clean ./...                       # Remove generated spies
  spyable support Tests/Support             # Write SpyableSupport.swift`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			toStdout, _ := cmd.Flags().GetBool("stdout")
			return a.load(toStdout)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Config file (default .spyable.yaml or .spyable.toml in the working directory)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.BoolP("quiet", "q", false, "Only show errors")
	flags.String("log-format", "text", "Output format: text or json")
	_ = a.viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = a.viper.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(
		newGenerateCmd(a),
		newDescribeCmd(a),
		newCleanCmd(a),
		newWatchCmd(a),
		newSupportCmd(a),
	)
	return root
}

// load reads the configuration and creates the diagnostics output. When
// generated code goes to stdout, messages go to stderr.
func (a *app) load(toStdout bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return spyerrors.WrapFileSystemError("resolve", ".", err)
	}
	cfg, err := cli.LoadConfig(a.viper, wd, a.configFile)
	if err != nil {
		return err
	}
	a.config = cfg

	level := utils.DiagnosticInfo
	switch {
	case cfg.Quiet:
		level = utils.DiagnosticError
	case cfg.Verbose:
		level = utils.DiagnosticVerbose
	}
	switch {
	case cfg.LogFormat == "json":
		a.diagnostics = utils.NewJSONDiagnostics(level, a.stderr)
	case toStdout:
		a.diagnostics = utils.NewBufferedDiagnostics(level, a.stderr)
	case a.stdout == os.Stdout:
		a.diagnostics = utils.NewDiagnosticSystem(level)
	default:
		a.diagnostics = utils.NewBufferedDiagnostics(level, a.stdout)
	}
	return nil
}

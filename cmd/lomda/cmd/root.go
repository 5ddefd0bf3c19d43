// Package cmd implements the lomda command-line surface: a single flat
// command (no subcommands — §6 describes one binary taking a file path
// or -c literal, entering a REPL otherwise) built with spf13/cobra the
// way the teacher's cmd/dwscript/cmd does, generalized from its
// run/version subcommand split to one root RunE that dispatches on
// flags, since §6's CLI has no subcommand surface to mirror.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lomda-lang/lomda/internal/config"
)

// Version is set by build flags (-ldflags "-X ...cmd.Version=...").
var Version = "0.1.0-dev"

var opts = config.Default()

var (
	evalExpr     string
	showVersion  bool
	runTests     bool
)

var rootCmd = &cobra.Command{
	Use:   "lomda [file.lom]",
	Short: "Lomda: a calculus-native expression interpreter",
	Long: `lomda runs Lomda programs — an expression language where numeric and
symbolic differentiation are first-class operations alongside ordinary
arithmetic, list/dict/tuple data, and algebraic data types.

Examples:
  lomda script.lom              run a file
  lomda -c 'print(1 + 2)'       run an inline program
  lomda                         enter the REPL
  lomda -t                      run the built-in test suite`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&evalExpr, "eval", "c", "", "execute the literal program text, then exit")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	rootCmd.Flags().BoolVarP(&runTests, "test", "t", false, "run the built-in test suite; exit code is the failure count")
	rootCmd.Flags().BoolVarP(&opts.Optimize, "optimize", "O", false, "enable the constant-folding/algebraic-simplification optimizer pass")
	rootCmd.Flags().BoolVar(&opts.ModuleCaching, "use-module-caching", false, "cache evaluated module values across imports")
	rootCmd.Flags().BoolVar(&opts.UseTypes, "use-types", false, "enable type-inference reporting")
	rootCmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "enable proof-step and debug logging")
	rootCmd.Flags().BoolVar(&opts.Werror, "werror", false, "treat warning-category diagnostics as fatal errors")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(_ *cobra.Command, args []string) error {
	if showVersion {
		fmt.Println("lomda version " + Version)
		return nil
	}
	if runTests {
		failures := runTestSuite(os.Stdout)
		os.Exit(failures)
		return nil
	}

	switch {
	case evalExpr != "":
		return runSource(evalExpr, ".")
	case len(args) == 1:
		return runFile(args[0])
	default:
		return runREPL()
	}
}

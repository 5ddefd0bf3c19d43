package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/interp"
	"github.com/lomda-lang/lomda/internal/optimizer"
	"github.com/lomda-lang/lomda/internal/parser"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
	"github.com/lomda-lang/lomda/internal/typeinfer"
)

// runFile executes the named .lom file, per §6's "an .lom extension is
// required for file arguments".
func runFile(path string) error {
	if !strings.HasSuffix(path, ".lom") {
		return fmt.Errorf("file argument must have a .lom extension, got %q", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		diagnostics.Print(os.Stderr, diagnostics.New(diagnostics.IO, token.Position{}, "%v", err))
		os.Exit(1)
	}
	return runSource(string(src), filepath.Dir(path))
}

// runSource parses, optionally optimizes and type-checks, then evaluates
// source under a fresh root environment, with baseDir as the directory
// `import`/`from...import` resolve module files relative to.
func runSource(src, baseDir string) error {
	root, p := parser.ParseProgram(src, opts.Werror)
	if errs := p.Errors(); len(errs) > 0 {
		diagnostics.Print(os.Stderr, diagnostics.New(diagnostics.Parser, errs[0].Pos, "%s", errs[0].Message))
		os.Exit(1)
	}
	for _, a := range p.Ambiguities() {
		diagnostics.Print(os.Stderr, diagnostics.New(diagnostics.Warning, a.Pos, "%s", a.Message))
	}

	if opts.Optimize {
		root = optimizer.Optimize(root)
	}

	if opts.UseTypes {
		if _, err := typeinfer.Infer(root, typeinfer.NewEnv()); err != nil {
			le, ok := err.(*diagnostics.LomdaError)
			if !ok {
				le = diagnostics.New(diagnostics.Type, token.Position{}, "%v", err)
			}
			diagnostics.Print(os.Stderr, le)
			if opts.Werror {
				os.Exit(1)
			}
		}
	}

	ip := interp.New(opts, os.Stdout, os.Stdin)
	ip.BaseDir = baseDir
	defer ip.Cache.Clear()
	env := interp.NewRootEnv()
	defer runtime.ReleaseEnv(env)

	_, err := ip.Eval(root, env)
	if err != nil {
		if le, ok := err.(*diagnostics.LomdaError); ok {
			diagnostics.Print(os.Stderr, le)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	return nil
}

package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/interp"
	"github.com/lomda-lang/lomda/internal/optimizer"
	"github.com/lomda-lang/lomda/internal/parser"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/typeinfer"
)

// runREPL implements the interactive session entered when no file or -c
// literal is given (§6). One environment and one type environment persist
// across lines, so a `let`-bound name from an earlier line is visible to
// a later one — mirroring the teacher's run.go entering a fresh
// interpreter per invocation, generalized to hold that interpreter open
// across many reads instead of one.
func runREPL() error {
	fmt.Println("lomda " + Version + " — enter expressions, Ctrl-D to exit")

	ip := interp.New(opts, os.Stdout, os.Stdin)
	ip.BaseDir = "."
	defer ip.Cache.Clear()
	env := interp.NewRootEnv()
	defer runtime.ReleaseEnv(env)
	typeEnv := typeinfer.NewEnv()

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("lomda> ")
		if !in.Scan() {
			fmt.Println()
			return nil
		}
		line := in.Text()
		if line == "" {
			continue
		}

		root, p := parser.ParseProgram(line, opts.Werror)
		if errs := p.Errors(); len(errs) > 0 {
			diagnostics.Print(os.Stderr, diagnostics.New(diagnostics.Parser, errs[0].Pos, "%s", errs[0].Message))
			continue
		}
		for _, a := range p.Ambiguities() {
			diagnostics.Print(os.Stderr, diagnostics.New(diagnostics.Warning, a.Pos, "%s", a.Message))
		}

		if opts.Optimize {
			root = optimizer.Optimize(root)
		}

		if opts.UseTypes {
			if _, err := typeinfer.Infer(root, typeEnv); err != nil {
				if le, ok := err.(*diagnostics.LomdaError); ok {
					diagnostics.Print(os.Stderr, le)
				} else {
					fmt.Fprintln(os.Stderr, err)
				}
				if opts.Werror {
					continue
				}
			}
		}

		result, err := ip.Eval(root, env)
		if err != nil {
			if le, ok := err.(*diagnostics.LomdaError); ok {
				diagnostics.Print(os.Stderr, le)
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}
		if _, isVoid := result.(*runtime.VoidVal); !isVoid {
			fmt.Println(result.String())
		}
	}
}

package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lomda-lang/lomda/internal/config"
	"github.com/lomda-lang/lomda/internal/interp"
	"github.com/lomda-lang/lomda/internal/parser"
	"github.com/lomda-lang/lomda/internal/runtime"
)

// testCase is one built-in smoke test: source evaluated to a single
// expression, whose result's String() must equal want.
type testCase struct {
	name string
	src  string
	want string
}

// builtinTests exercises one representative scenario per §8 testable
// property: arithmetic, let/lambda application, recursion, numeric
// differentiation, matrix arithmetic, and ADT construction/switch.
var builtinTests = []testCase{
	{"arithmetic", "2 + 3 * 4", "14"},
	{"let-lambda", "let add = lambda(a, b) a + b; add(3, 4)", "7"},
	{"recursion", `let fact = lambda(n) if n == 0 then 1 else n * fact(n - 1); fact(5)`, "120"},
	{"derivative-power", "let x = 5; d/dx (x ^ 3)", "75"},
	{"derivative-product", "let x = 3; d/dx (x * x)", "6"},
	{"list-fold", "fold([1, 2, 3, 4], 0, lambda(acc, e) acc + e)", "10"},
	{"matrix-mul", "[[1, 2], [3, 4]] * [[1, 0], [0, 1]]", "[[1, 2], [3, 4]]"},
	{"adt-switch", `type Shape = Circle(r) | Square(s);
let area = lambda(s) switch s { case Circle(r) => 3.14159 * r * r; case Square(s) => s * s };
area(Square(4))`, "16"},
}

// runTestSuite runs builtinTests, printing a line per case to w, and
// returns the number of failures — the exit code §6 specifies for -t.
func runTestSuite(w io.Writer) int {
	failures := 0
	for _, tc := range builtinTests {
		if err := runOneTest(tc); err != nil {
			fmt.Fprintf(w, "FAIL %-24s %v\n", tc.name, err)
			failures++
			continue
		}
		fmt.Fprintf(w, "ok   %-24s\n", tc.name)
	}
	fmt.Fprintf(w, "%d passed, %d failed\n", len(builtinTests)-failures, failures)
	return failures
}

func runOneTest(tc testCase) error {
	root, p := parser.ParseProgram(tc.src, false)
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("parse error: %s", errs[0].Message)
	}

	var out bytes.Buffer
	ip := interp.New(config.Default(), &out, bytes.NewReader(nil))
	env := interp.NewRootEnv()
	defer runtime.ReleaseEnv(env)

	result, err := ip.Eval(root, env)
	if err != nil {
		return err
	}
	if got := result.String(); got != tc.want {
		return fmt.Errorf("got %q, want %q", got, tc.want)
	}
	return nil
}

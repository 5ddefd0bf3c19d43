package interp

import (
	"os"
	"path/filepath"

	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/diagnostics"
	"github.com/lomda-lang/lomda/internal/parser"
	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// loadModule resolves §6's "module name M resolves to file M.lom in the
// current working directory" (here, ip.BaseDir, so nested imports resolve
// relative to the importing file rather than the process's cwd), checks
// the process-wide cache, and otherwise parses and evaluates the file
// under a fresh, empty environment, caching the resulting value.
func (ip *Interpreter) loadModule(pos token.Position, module string) (runtime.Value, error) {
	if v, ok := ip.Cache.Get(module); ok {
		return v, nil
	}
	path := filepath.Join(ip.BaseDir, module+".lom")
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.New(diagnostics.IO, pos, "import %q: %v", module, err)
	}
	root, p := parser.ParseProgram(string(src), ip.Config.Werror)
	if errs := p.Errors(); len(errs) > 0 {
		return nil, diagnostics.New(diagnostics.Parser, pos, "import %q: %v", module, errs[0])
	}
	moduleEnv := runtime.NewEnvironment()
	value, err := ip.Eval(root, moduleEnv)
	runtime.ReleaseEnv(moduleEnv)
	if err != nil {
		return nil, err
	}
	value, err = ip.Force(value)
	if err != nil {
		return nil, err
	}
	ip.Cache.Put(module, value)
	return value, nil
}

// evalImport implements `import M` (§6): the module's evaluated top-level
// value is bound to the name M in the importing environment.
func (ip *Interpreter) evalImport(n *ast.ImportNode, env *runtime.Environment) (runtime.Value, error) {
	v, err := ip.loadModule(n.Pos(), n.Module)
	if err != nil {
		return nil, err
	}
	env.Declare(n.Module, v)
	return &runtime.VoidVal{}, nil
}

// evalFromImport implements `from M import a, b`: the module's top-level
// value must be a Dict, and the named fields are bound directly in the
// importing environment.
func (ip *Interpreter) evalFromImport(n *ast.FromImportNode, env *runtime.Environment) (runtime.Value, error) {
	v, err := ip.loadModule(n.Pos(), n.Module)
	if err != nil {
		return nil, err
	}
	dict, ok := v.(*runtime.DictVal)
	if !ok {
		return nil, typeErr(n.Pos(), "from-import requires %q to evaluate to a Dict, got %s", n.Module, v.Type())
	}
	for _, name := range n.Names {
		field, ok := dict.Get(name)
		if !ok {
			return nil, rtErr(n.Pos(), "module %q has no member %q", n.Module, name)
		}
		env.Declare(name, field)
	}
	return &runtime.VoidVal{}, nil
}

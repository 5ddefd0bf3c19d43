package interp

import (
	"github.com/lomda-lang/lomda/internal/ast"
	"github.com/lomda-lang/lomda/internal/runtime"
)

// evalADTDecl implements §4.1's type declaration: each constructor name is
// declared in env as a callable ADTCtorVal, and the constructor table is
// recorded in ip.adts under the type name.
func (ip *Interpreter) evalADTDecl(n *ast.ADTDeclNode, env *runtime.Environment) (runtime.Value, error) {
	info := &adtInfo{ctors: map[string]ast.Constructor{}}
	for _, ctor := range n.Constructors {
		info.ctors[ctor.Name] = ctor
		env.Declare(ctor.Name, &runtime.ADTCtorVal{TypeName: n.Name, Name: ctor.Name, Arity: len(ctor.Fields)})
	}
	ip.adts[n.Name] = info
	return &runtime.VoidVal{}, nil
}

// evalSwitch implements §4.1's pattern match: the scrutinee must evaluate
// to an ADTVal; the first arm whose Constructor matches selects the
// branch, with the constructor's fields bound by position in a frame
// extending env.
func (ip *Interpreter) evalSwitch(n *ast.SwitchNode, env *runtime.Environment) (runtime.Value, error) {
	sv, err := ip.evalForced(n.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	adt, ok := sv.(*runtime.ADTVal)
	if !ok {
		return nil, typeErr(n.Pos(), "switch requires a constructed value, got %s", sv.Type())
	}
	for _, arm := range n.Arms {
		if arm.Constructor != adt.Constructor {
			continue
		}
		if len(arm.Fields) != len(adt.Fields) {
			return nil, rtErr(n.Pos(), "arm %q expects %d fields, %s has %d", arm.Constructor, len(arm.Fields), adt.Constructor, len(adt.Fields))
		}
		frame := env.ExtendEmpty()
		for i, name := range arm.Fields {
			frame.Declare(name, adt.Fields[i])
		}
		result, err := ip.Eval(arm.Body, frame)
		runtime.ReleaseEnv(frame)
		return result, err
	}
	return nil, rtErr(n.Pos(), "switch: no arm matches constructor %q", adt.Constructor)
}

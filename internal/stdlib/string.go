package stdlib

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// stringModule groups case conversion, search, and Unicode normalization,
// grounded on the teacher's builtins_strings.go (UpperCase/LowerCase/
// Trim/StrContains/Normalize) and generalized from DWScript's ANSI-string
// model to Lomda's single String type.
func stringModule() *runtime.DictVal {
	return newModule(map[string]*runtime.NativeFuncVal{
		"upper": fn("upper", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "upper", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.StringVal{Value: strings.ToUpper(s)}, nil
		}),
		"lower": fn("lower", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "lower", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.StringVal{Value: strings.ToLower(s)}, nil
		}),
		"trim": fn("trim", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "trim", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.StringVal{Value: strings.TrimSpace(s)}, nil
		}),
		"split": fn("split", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "split", args[0])
			if err != nil {
				return nil, err
			}
			sep, err := asString(pos, "split", args[1])
			if err != nil {
				return nil, err
			}
			parts := strings.Split(s, sep)
			out := make([]runtime.Value, len(parts))
			for i, p := range parts {
				out[i] = &runtime.StringVal{Value: p}
			}
			return runtime.NewList(out), nil
		}),
		"join": fn("join", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			list, err := asList(pos, "join", args[0])
			if err != nil {
				return nil, err
			}
			sep, err := asString(pos, "join", args[1])
			if err != nil {
				return nil, err
			}
			parts := make([]string, list.Len())
			for i, e := range list.Elements {
				s, ok := e.(*runtime.StringVal)
				if !ok {
					return nil, typeErr(pos, "join expects a List of Strings, got element of type %s", e.Type())
				}
				parts[i] = s.Value
			}
			return &runtime.StringVal{Value: strings.Join(parts, sep)}, nil
		}),
		"contains": fn("contains", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "contains", args[0])
			if err != nil {
				return nil, err
			}
			sub, err := asString(pos, "contains", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.BoolVal{Value: strings.Contains(s, sub)}, nil
		}),
		"startswith": fn("startswith", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "startswith", args[0])
			if err != nil {
				return nil, err
			}
			pre, err := asString(pos, "startswith", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.BoolVal{Value: strings.HasPrefix(s, pre)}, nil
		}),
		"endswith": fn("endswith", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "endswith", args[0])
			if err != nil {
				return nil, err
			}
			suf, err := asString(pos, "endswith", args[1])
			if err != nil {
				return nil, err
			}
			return &runtime.BoolVal{Value: strings.HasSuffix(s, suf)}, nil
		}),
		"replace": fn("replace", 3, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "replace", args[0])
			if err != nil {
				return nil, err
			}
			old, err := asString(pos, "replace", args[1])
			if err != nil {
				return nil, err
			}
			rep, err := asString(pos, "replace", args[2])
			if err != nil {
				return nil, err
			}
			return &runtime.StringVal{Value: strings.ReplaceAll(s, old, rep)}, nil
		}),
		"length": fn("length", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "length", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.IntVal{Value: int64(len([]rune(s)))}, nil
		}),
		"normalize": fn("normalize", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			s, err := asString(pos, "normalize", args[0])
			if err != nil {
				return nil, err
			}
			return &runtime.StringVal{Value: norm.NFC.String(s)}, nil
		}),
	})
}

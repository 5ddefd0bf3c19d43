package stdlib

import (
	stdsort "sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// sortModule groups list ordering and locale-aware string comparison,
// grounded on the teacher's builtin Sort() (array ordering) and
// CompareLocaleStr() (golang.org/x/text/collate + language-backed
// locale comparison).
func sortModule() *runtime.DictVal {
	return newModule(map[string]*runtime.NativeFuncVal{
		"sort": fn("sort", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			list, err := asList(pos, "sort", args[0])
			if err != nil {
				return nil, err
			}
			out := list.Clone()
			var sortErr error
			stdsort.SliceStable(out.Elements, func(i, j int) bool {
				less, err := lessValues(pos, out.Elements[i], out.Elements[j])
				if err != nil && sortErr == nil {
					sortErr = err
				}
				return less
			})
			if sortErr != nil {
				runtime.Release(out)
				return nil, sortErr
			}
			return out, nil
		}),
		"reverse": fn("reverse", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			list, err := asList(pos, "reverse", args[0])
			if err != nil {
				return nil, err
			}
			out := list.Clone()
			for i, j := 0, len(out.Elements)-1; i < j; i, j = i+1, j-1 {
				out.Elements[i], out.Elements[j] = out.Elements[j], out.Elements[i]
			}
			return out, nil
		}),
		"localecompare": fn("localecompare", 3, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			a, err := asString(pos, "localecompare", args[0])
			if err != nil {
				return nil, err
			}
			b, err := asString(pos, "localecompare", args[1])
			if err != nil {
				return nil, err
			}
			locale, err := asString(pos, "localecompare", args[2])
			if err != nil {
				return nil, err
			}
			tag, perr := language.Parse(locale)
			if perr != nil {
				tag = language.English
			}
			col := collate.New(tag)
			return &runtime.IntVal{Value: int64(col.CompareString(a, b))}, nil
		}),
	})
}

// lessValues orders two scalar values for sort(): numerics by value,
// strings lexically; mixed or non-scalar pairs are a type error since
// §4.1 never defines an ordering across shapes.
func lessValues(pos token.Position, a, b runtime.Value) (bool, error) {
	if runtime.IsNumeric(a) && runtime.IsNumeric(b) {
		return runtime.AsFloat(a) < runtime.AsFloat(b), nil
	}
	as, aok := a.(*runtime.StringVal)
	bs, bok := b.(*runtime.StringVal)
	if aok && bok {
		return as.Value < bs.Value, nil
	}
	return false, typeErr(pos, "sort requires a List of uniformly ordered numbers or strings, got %s and %s", a.Type(), b.Type())
}

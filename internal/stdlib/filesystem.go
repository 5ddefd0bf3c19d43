package stdlib

import (
	"os"

	"github.com/lomda-lang/lomda/internal/runtime"
	"github.com/lomda-lang/lomda/internal/token"
)

// fsModule groups text file I/O, extending the teacher's Print/PrintLn
// console builtins to files; failures surface as diagnostics.IO errors
// per §7's category table rather than panicking.
func fsModule() *runtime.DictVal {
	return newModule(map[string]*runtime.NativeFuncVal{
		"readfile": fn("readfile", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			path, err := asString(pos, "readfile", args[0])
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, ioErr(pos, "readfile %q: %v", path, err)
			}
			return &runtime.StringVal{Value: string(data)}, nil
		}),
		"writefile": fn("writefile", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			path, err := asString(pos, "writefile", args[0])
			if err != nil {
				return nil, err
			}
			content, err := asString(pos, "writefile", args[1])
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return nil, ioErr(pos, "writefile %q: %v", path, err)
			}
			return &runtime.VoidVal{}, nil
		}),
		"appendfile": fn("appendfile", 2, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			path, err := asString(pos, "appendfile", args[0])
			if err != nil {
				return nil, err
			}
			content, err := asString(pos, "appendfile", args[1])
			if err != nil {
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, ioErr(pos, "appendfile %q: %v", path, err)
			}
			defer f.Close()
			if _, err := f.WriteString(content); err != nil {
				return nil, ioErr(pos, "appendfile %q: %v", path, err)
			}
			return &runtime.VoidVal{}, nil
		}),
		"exists": fn("exists", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			path, err := asString(pos, "exists", args[0])
			if err != nil {
				return nil, err
			}
			_, statErr := os.Stat(path)
			return &runtime.BoolVal{Value: statErr == nil}, nil
		}),
		"remove": fn("remove", 1, func(pos token.Position, args []runtime.Value) (runtime.Value, error) {
			path, err := asString(pos, "remove", args[0])
			if err != nil {
				return nil, err
			}
			if err := os.Remove(path); err != nil {
				return nil, ioErr(pos, "remove %q: %v", path, err)
			}
			return &runtime.VoidVal{}, nil
		}),
	})
}

package resolve

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pgavlin/wasmdec/load"
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/spf13/cobra"
)

// ErrArity is returned when the number of arguments does not match the
// function's parameters.
var ErrArity = errors.New("wrong number of arguments")

// Arg is a command-line argument converted to a parameter type.
type Arg struct {
	Type wasm.ValueType
	Bits uint64
}

func (a Arg) String() string {
	switch a.Type {
	case wasm.ValueTypeI32:
		return fmt.Sprintf("(i32 %d)", int32(a.Bits))
	case wasm.ValueTypeI64:
		return fmt.Sprintf("(i64 %d)", int64(a.Bits))
	case wasm.ValueTypeF32:
		return fmt.Sprintf("(f32 %g)", math.Float32frombits(uint32(a.Bits)))
	default:
		return fmt.Sprintf("(f64 %g)", math.Float64frombits(a.Bits))
	}
}

// ParseArg converts s to a value of type t. Only number types can be passed
// on the command line.
func ParseArg(t wasm.ValueType, s string) (Arg, error) {
	switch t {
	case wasm.ValueTypeI32:
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			// Accept unsigned spellings of negative values, e.g. 0xffffffff.
			u, uerr := strconv.ParseUint(s, 0, 32)
			if uerr != nil {
				return Arg{}, err
			}
			v = int64(int32(u))
		}
		return Arg{Type: t, Bits: uint64(uint32(v))}, nil
	case wasm.ValueTypeI64:
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			u, uerr := strconv.ParseUint(s, 0, 64)
			if uerr != nil {
				return Arg{}, err
			}
			v = int64(u)
		}
		return Arg{Type: t, Bits: uint64(v)}, nil
	case wasm.ValueTypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Arg{}, err
		}
		return Arg{Type: t, Bits: uint64(math.Float32bits(float32(v)))}, nil
	case wasm.ValueTypeF64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Arg{}, err
		}
		return Arg{Type: t, Bits: math.Float64bits(v)}, nil
	default:
		return Arg{}, fmt.Errorf("%v values cannot be passed on the command line", t)
	}
}

// ParseArgs checks args against the parameters of sig.
func ParseArgs(sig *wasm.FuncType, args []string) ([]Arg, error) {
	if len(args) != len(sig.Params) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArity, len(sig.Params), len(args))
	}

	values := make([]Arg, len(args))
	for i, s := range args {
		v, err := ParseArg(sig.Params[i], s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func printCall(w io.Writer, name string, funcidx uint32, sig *wasm.FuncType, args []Arg) error {
	var b strings.Builder
	fmt.Fprintf(&b, "(invoke %q", name)
	for _, a := range args {
		b.WriteString(" ")
		b.WriteString(a.String())
	}
	b.WriteString(")")

	_, err := fmt.Fprintf(w, "func %d %q %v\n%s\n", funcidx, name, sig, b.String())
	return err
}

// loadModule loads the module named by arg. With dir set, arg is a module
// name looked up in dir; otherwise it is a path.
func loadModule(dir, arg string) (*wasm.Module, error) {
	if dir == "" {
		return load.LoadFile(arg)
	}
	mod, err := load.NewFSResolver(os.DirFS(dir)).ResolveModule(arg)
	if err != nil {
		return nil, fmt.Errorf("resolving module %q in %v: %w", arg, dir, err)
	}
	return mod, nil
}

func Command() *cobra.Command {
	var dir string

	command := &cobra.Command{
		Use:   "resolve [module] [export name] [args...]",
		Short: "Resolve an exported function call",
		Long: "Resolve an exported function by name and check the given arguments " +
			"against its signature. The function is not executed. The module is a " +
			"path, or a module name when --dir is given.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mod, err := loadModule(dir, args[0])
			if err != nil {
				return err
			}

			name := args[1]
			funcidx, _, sig, err := mod.ExportedFunc(name)
			if err != nil {
				return err
			}

			values, err := ParseArgs(sig, args[2:])
			if err != nil {
				return fmt.Errorf("calling %q: %w", name, err)
			}
			return printCall(cmd.OutOrStdout(), name, funcidx, sig, values)
		},
	}

	command.Flags().StringVar(&dir, "dir", "", "look up the module by name in this directory")

	return command
}

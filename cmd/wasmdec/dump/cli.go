package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pgavlin/wasmdec/load"
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/code"
	"github.com/spf13/cobra"
)

var heading = color.New(color.FgCyan, color.Bold)

// exportNames maps function indices to the first name they are exported under.
func exportNames(m *wasm.Module) map[uint32]string {
	names := map[uint32]string{}
	for _, e := range m.Exports {
		if e.Desc.Kind != wasm.ExternalFunction {
			continue
		}
		if _, ok := names[e.Desc.Index]; !ok {
			names[e.Desc.Index] = e.Name
		}
	}
	return names
}

func Command() *cobra.Command {
	var stats bool

	command := &cobra.Command{
		Use:   "dump [path to module]",
		Short: "Dump WebAssembly modules",
		Long:  "Dump the types, functions and exports of a WebAssembly module",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one argument")
			}
			mod, err := load.LoadFile(args[0])
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			if stats {
				err = dumpStats(w, mod)
			} else {
				err = dumpModule(w, mod)
			}
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}

	command.PersistentFlags().BoolVarP(&stats, "stats", "s", false, "dump per-function statistics in CSV format")

	return command
}

// dumpModule writes the listing of m to w. Write errors are left to the
// caller's bufio.Writer, which reports the first one from Flush.
func dumpModule(w io.Writer, m *wasm.Module) error {
	names := exportNames(m)

	heading.Fprintf(w, "version %d\n", m.Version)

	heading.Fprintf(w, "types (%d)\n", len(m.Types))
	for i, t := range m.Types {
		fmt.Fprintf(w, "\t%d: %v\n", i, t)
	}

	heading.Fprintf(w, "functions (%d)\n", len(m.Funcs))
	for i := range m.Funcs {
		f := &m.Funcs[i]

		fmt.Fprintf(w, "\tfunc %d", i)
		if name, ok := names[uint32(i)]; ok {
			fmt.Fprintf(w, " %q", name)
		}
		fmt.Fprintf(w, " (type %d)", f.TypeIndex)
		if int64(f.TypeIndex) < int64(len(m.Types)) {
			fmt.Fprintf(w, " %v", m.Types[f.TypeIndex])
		}
		fmt.Fprintln(w)

		if len(f.Locals) != 0 {
			fmt.Fprintf(w, "\t\tlocals %v\n", wasm.ResultType(f.Locals))
		}
		if err := code.Fprint(w, f.Body, 2); err != nil {
			return err
		}
	}

	heading.Fprintf(w, "exports (%d)\n", len(m.Exports))
	for _, e := range m.Exports {
		fmt.Fprintf(w, "\t%q: %v %d\n", e.Name, e.Desc.Kind, e.Desc.Index)
	}
	return nil
}

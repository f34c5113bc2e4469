package dump

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/pgavlin/wasmdec/wasm/code"
)

// rows:
// - function
//     - export, in/out, nlocals, max nesting, # instructions, instruction breakdown

func dumpStats(w io.Writer, m *wasm.Module) error {
	type row struct {
		Function         string `csv:"function"`
		Funcidx          int    `csv:"funcidx"`
		In               int    `csv:"in"`
		Out              int    `csv:"out"`
		LocalCount       int    `csv:"local count"`
		MaxNesting       int    `csv:"max nesting"`
		InstructionCount int    `csv:"instruction count"`
		DistinctOpcodes  uint   `csv:"distinct opcodes"`
		Block            int    `csv:"block"`
		Loop             int    `csv:"loop"`
		If               int    `csv:"if"`
		Else             int    `csv:"else"`
		Br               int    `csv:"br"`
		Call             int    `csv:"call"`
		Local            int    `csv:"local"`
		Global           int    `csv:"global"`
		Load             int    `csv:"load"`
		Store            int    `csv:"store"`
		Const            int    `csv:"const"`
		Numeric          int    `csv:"numeric"`
	}

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	encoder := csvutil.NewEncoder(csvWriter)

	names := exportNames(m)
	for idx := range m.Funcs {
		f := &m.Funcs[idx]

		var sig wasm.FuncType
		if int64(f.TypeIndex) < int64(len(m.Types)) {
			sig = m.Types[f.TypeIndex]
		}

		metrics := code.Measure(f.Body)
		r := row{
			Function:         names[uint32(idx)],
			Funcidx:          idx,
			In:               len(sig.Params),
			Out:              len(sig.Results),
			LocalCount:       len(f.Locals),
			MaxNesting:       metrics.MaxNesting,
			InstructionCount: metrics.Instructions,
			DistinctOpcodes:  metrics.Opcodes.Count(),
			Block:            metrics.Blocks,
			Loop:             metrics.Loops,
			If:               metrics.Ifs,
			Else:             metrics.Elses,
		}
		code.Walk(f.Body, func(instr *wasm.Instruction) {
			switch op := instr.Opcode; {
			case op == code.OpBr || op == code.OpBrIf || op == code.OpBrTable:
				r.Br++
			case op == code.OpCall || op == code.OpCallIndirect:
				r.Call++
			case op >= code.OpLocalGet && op <= code.OpLocalTee:
				r.Local++
			case op == code.OpGlobalGet || op == code.OpGlobalSet:
				r.Global++
			case op >= code.OpI32Load && op <= code.OpI64Load32U:
				r.Load++
			case op >= code.OpI32Store && op <= code.OpI64Store32:
				r.Store++
			case op >= code.OpI32Const && op <= code.OpF64Const:
				r.Const++
			case op >= code.OpI32Eqz && op <= code.OpI64Extend32S, op == code.OpPrefix:
				r.Numeric++
			}
		})

		if err := encoder.Encode(&r); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

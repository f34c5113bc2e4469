package code

import (
	"github.com/pgavlin/wasmdec/wasm"
	"github.com/willf/bitset"
)

// Metrics summarizes the shape of a decoded instruction stream.
type Metrics struct {
	// Instructions counts every instruction, including those in nested
	// bodies. The end and else markers are not instructions.
	Instructions int
	// MaxNesting is the deepest block/loop/if nesting reached.
	MaxNesting int

	Blocks int
	Loops  int
	Ifs    int
	Elses  int

	// Opcodes holds the set of distinct opcodes used.
	Opcodes bitset.BitSet
}

// Measure walks expr and its nested bodies.
func Measure(expr wasm.Expr) Metrics {
	var m Metrics
	m.measure(expr, 0)
	return m
}

func (m *Metrics) measure(expr wasm.Expr, depth int) {
	if depth > m.MaxNesting {
		m.MaxNesting = depth
	}

	for i := range expr {
		instr := &expr[i]

		m.Instructions++
		m.Opcodes.Set(uint(instr.Opcode))

		switch instr.Opcode {
		case OpBlock:
			m.Blocks++
		case OpLoop:
			m.Loops++
		case OpIf:
			m.Ifs++
			if instr.HasElse() {
				m.Elses++
				m.measure(instr.Else, depth+1)
			}
		default:
			continue
		}
		m.measure(instr.Body, depth+1)
	}
}

// Merge adds the counts of o into m.
func (m *Metrics) Merge(o *Metrics) {
	m.Instructions += o.Instructions
	if o.MaxNesting > m.MaxNesting {
		m.MaxNesting = o.MaxNesting
	}
	m.Blocks += o.Blocks
	m.Loops += o.Loops
	m.Ifs += o.Ifs
	m.Elses += o.Elses
	m.Opcodes.InPlaceUnion(&o.Opcodes)
}

// Walk calls visit for each instruction in expr in order. The bodies of
// structured instructions are visited after the instruction itself.
func Walk(expr wasm.Expr, visit func(instr *wasm.Instruction)) {
	for i := range expr {
		instr := &expr[i]
		visit(instr)
		if len(instr.Body) != 0 {
			Walk(instr.Body, visit)
		}
		if len(instr.Else) != 0 {
			Walk(instr.Else, visit)
		}
	}
}

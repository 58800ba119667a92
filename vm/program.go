package vm

import "io"

// Run allocates a fresh Memory (with the default address-space and
// stack sizes) and executes p to natural termination or the first
// fault, writing prn output to w.
func (p *Program) Run(w io.Writer) error {
	return p.RunWithSize(w, DefaultMemoryWords, DefaultStackWords)
}

// RunWithSize is Run with caller-supplied address-space and stack
// sizes, in words.
func (p *Program) RunWithSize(w io.Writer, memoryWords, stackWords int) error {
	e := NewRun(p, memoryWords, stackWords)
	e.OutputWriter = w
	return e.Run()
}

// Step single-steps p against an existing Memory, returning halted=true
// on natural termination. It never allocates a new Memory, so repeated
// calls share state across invocations.
func (p *Program) Step(m *Memory, w io.Writer) (halted bool, err error) {
	e := &Executor{Program: p, Memory: m, OutputWriter: w}
	return e.Step()
}

package parser

import (
	"strings"

	"tinyvm/vm"
)

// pendingSource is a Source operand that may still need a label lookup
// before it is fully typed.
type pendingSource struct {
	resolved bool
	src      vm.Source
	label    string
}

func resolvedSource(s vm.Source) pendingSource { return pendingSource{resolved: true, src: s} }
func labelSource(name string) pendingSource     { return pendingSource{label: name} }

func (ps pendingSource) resolve(labels *LabelTable, lineIndex int) (vm.Source, *ParseError) {
	if ps.resolved {
		return ps.src, nil
	}
	idx, ok := labels.lookup(ps.label)
	if !ok {
		return vm.Source{}, &ParseError{LineIndex: lineIndex, Kind: UndefinedLabel, Text: ps.label}
	}
	return vm.SourceImmediate(idx), nil
}

// unresolvedInstruction is the line parser's output before label
// resolution: Target operands are already fully typed (they can never
// be labels), Source operands may still carry a pending label name.
type unresolvedInstruction struct {
	op     vm.Opcode
	target vm.Target
	src1   pendingSource
	src2   pendingSource
}

func (ui *unresolvedInstruction) resolve(labels *LabelTable, lineIndex int) (vm.Instruction, *ParseError) {
	inst := vm.Instruction{Op: ui.op, Target: ui.target}

	switch vm.Signature(ui.op) {
	case vm.ArityTarget:
		// no sources to resolve
	case vm.AritySource:
		s, err := ui.src1.resolve(labels, lineIndex)
		if err != nil {
			return vm.Instruction{}, err
		}
		inst.Src1 = s
	case vm.ArityTwoSource:
		s1, err := ui.src1.resolve(labels, lineIndex)
		if err != nil {
			return vm.Instruction{}, err
		}
		s2, err := ui.src2.resolve(labels, lineIndex)
		if err != nil {
			return vm.Instruction{}, err
		}
		inst.Src1, inst.Src2 = s1, s2
	case vm.ArityTargetSource:
		s, err := ui.src1.resolve(labels, lineIndex)
		if err != nil {
			return vm.Instruction{}, err
		}
		inst.Src1 = s
	}

	return inst, nil
}

// rawOperand is the result of classifying a single operand token,
// before it is known whether the slot calling for it wants a Source or
// a Target.
type rawOperand struct {
	isRegister bool
	register   vm.Register
	isAddress  bool
	isLabel    bool
	label      string
	isNumber   bool
	value      int32
}

func parseRawOperand(token string) (rawOperand, bool) {
	if reg, ok := vm.ParseRegister(token); ok {
		return rawOperand{isRegister: true, register: reg}, true
	}

	if strings.HasPrefix(token, "[") && strings.HasSuffix(token, "]") && len(token) >= 2 {
		inner := token[1 : len(token)-1]
		v, err := vm.ParseNumericLiteral(inner)
		if err != nil || v < 0 {
			return rawOperand{}, false
		}
		return rawOperand{isAddress: true, value: v}, true
	}

	if v, err := vm.ParseNumericLiteral(token); err == nil {
		return rawOperand{isNumber: true, value: v}, true
	}

	if isValidLabelIdentifier(token) {
		return rawOperand{isLabel: true, label: token}, true
	}

	return rawOperand{}, false
}

func (r rawOperand) asSource() (pendingSource, bool) {
	switch {
	case r.isRegister:
		return resolvedSource(vm.SourceRegister(r.register)), true
	case r.isAddress:
		return resolvedSource(vm.SourceAddress(r.value)), true
	case r.isLabel:
		return labelSource(r.label), true
	case r.isNumber:
		return resolvedSource(vm.SourceImmediate(r.value)), true
	default:
		return pendingSource{}, false
	}
}

func (r rawOperand) asTarget() (vm.Target, bool) {
	switch {
	case r.isRegister:
		return vm.TargetRegister(r.register), true
	case r.isAddress:
		return vm.TargetAddress(r.value), true
	default:
		// Immediates and labels are never valid write destinations.
		return vm.Target{}, false
	}
}

// parsedLine is the per-line output of the line parser: zero or more
// declared labels and at most one instruction, or a deferred error.
type parsedLine struct {
	labels []string
	instr  *unresolvedInstruction
	err    *ParseError
}

// parseLine classifies tokens into labels, an instruction, or a
// deferred parse error (never returned directly: stored on the line so
// label gathering can still see the line's labels per spec.md §4.4).
func parseLine(tokens []string, lineIndex int) parsedLine {
	var labels []string
	idx := 0

	for idx < len(tokens) {
		tok := tokens[idx]
		if !strings.HasSuffix(tok, ":") {
			break
		}
		name := tok[:len(tok)-1]
		if !isValidLabelIdentifier(name) {
			break // not a label after all; fall through to mnemonic classification
		}
		labels = append(labels, name)
		idx++
	}

	if idx >= len(tokens) {
		return parsedLine{labels: labels}
	}

	mnemonicTok := tokens[idx]
	op, ok := vm.LookupMnemonic(mnemonicTok)
	if !ok {
		return parsedLine{labels: labels, err: &ParseError{LineIndex: lineIndex, Kind: InvalidInstruction, Text: mnemonicTok}}
	}

	operands := tokens[idx+1:]
	ui, perr := parseOperands(op, operands, lineIndex)
	if perr != nil {
		return parsedLine{labels: labels, err: perr}
	}
	return parsedLine{labels: labels, instr: ui}
}

func parseOperands(op vm.Opcode, operands []string, lineIndex int) (*unresolvedInstruction, *ParseError) {
	extra := func(wantCount int) *ParseError {
		if len(operands) > wantCount {
			return &ParseError{LineIndex: lineIndex, Kind: ExtraToken, Text: operands[wantCount]}
		}
		return nil
	}
	missing := func(i int) *ParseError {
		return &ParseError{LineIndex: lineIndex, Kind: MissingOperand, Index: i}
	}
	invalid := func(text string) *ParseError {
		return &ParseError{LineIndex: lineIndex, Kind: InvalidOperand, Text: text}
	}

	raw := func(i int) (rawOperand, *ParseError) {
		if i >= len(operands) {
			return rawOperand{}, missing(i)
		}
		r, ok := parseRawOperand(operands[i])
		if !ok {
			return rawOperand{}, invalid(operands[i])
		}
		return r, nil
	}

	switch vm.Signature(op) {
	case vm.ArityNone:
		if perr := extra(0); perr != nil {
			return nil, perr
		}
		return &unresolvedInstruction{op: op}, nil

	case vm.ArityTarget:
		r, perr := raw(0)
		if perr != nil {
			return nil, perr
		}
		tgt, ok := r.asTarget()
		if !ok {
			return nil, invalid(operands[0])
		}
		if perr := extra(1); perr != nil {
			return nil, perr
		}
		return &unresolvedInstruction{op: op, target: tgt}, nil

	case vm.AritySource:
		r, perr := raw(0)
		if perr != nil {
			return nil, perr
		}
		src, ok := r.asSource()
		if !ok {
			return nil, invalid(operands[0])
		}
		if perr := extra(1); perr != nil {
			return nil, perr
		}
		return &unresolvedInstruction{op: op, src1: src}, nil

	case vm.ArityTwoSource:
		r0, perr := raw(0)
		if perr != nil {
			return nil, perr
		}
		s0, ok := r0.asSource()
		if !ok {
			return nil, invalid(operands[0])
		}
		r1, perr := raw(1)
		if perr != nil {
			return nil, perr
		}
		s1, ok := r1.asSource()
		if !ok {
			return nil, invalid(operands[1])
		}
		if perr := extra(2); perr != nil {
			return nil, perr
		}
		return &unresolvedInstruction{op: op, src1: s0, src2: s1}, nil

	case vm.ArityTargetSource:
		r0, perr := raw(0)
		if perr != nil {
			return nil, perr
		}
		tgt, ok := r0.asTarget()
		if !ok {
			return nil, invalid(operands[0])
		}
		r1, perr := raw(1)
		if perr != nil {
			return nil, perr
		}
		s1, ok := r1.asSource()
		if !ok {
			return nil, invalid(operands[1])
		}
		if perr := extra(2); perr != nil {
			return nil, perr
		}
		return &unresolvedInstruction{op: op, target: tgt, src1: s1}, nil
	}

	return &unresolvedInstruction{op: op}, nil
}

// Load runs the full pipeline: preprocess, lex, parse each line, gather
// labels, then resolve every instruction into a vm.Program.
func Load(source string, resolve IncludeResolver) (*vm.Program, *LoadError) {
	defines := make(map[string]string)
	expanded, perr := Preprocess(source, defines, resolve)
	if perr != nil {
		return nil, preprocessingLoadError(perr)
	}

	lines := Lex(expanded, defines)

	parsed := make([]parsedLine, len(lines))
	for i, tokens := range lines {
		parsed[i] = parseLine(tokens, i)
	}

	labels := newLabelTable()
	counter := int32(0)
	for i, pl := range parsed {
		for _, label := range pl.labels {
			if !labels.define(label, counter) {
				return nil, parseLoadError(&ParseError{LineIndex: i, Kind: DuplicateLabel, Text: label})
			}
		}
		if pl.instr != nil && pl.err == nil {
			counter++
		}
	}

	instructions := make([]vm.Instruction, 0, counter)
	for i, pl := range parsed {
		if pl.err != nil {
			return nil, parseLoadError(&ParseError{LineIndex: i, Kind: pl.err.Kind, Text: pl.err.Text, Index: pl.err.Index})
		}
		if pl.instr == nil {
			continue
		}
		inst, rerr := pl.instr.resolve(labels, i)
		if rerr != nil {
			return nil, parseLoadError(rerr)
		}
		instructions = append(instructions, inst)
	}

	startIndex := int32(0)
	if idx, ok := labels.lookup(startLabel); ok {
		startIndex = idx
	}

	return &vm.Program{Instructions: instructions, StartInstructionIndex: startIndex}, nil
}

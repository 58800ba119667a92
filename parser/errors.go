package parser

import "fmt"

// PreprocessingError is the sub-kind taxonomy for failures during
// %include/%define expansion.
type PreprocessingError struct {
	Kind PreprocessingErrorKind
	Name string // include target or define key, as applicable
	// Original/New hold the two values of a DuplicateDefine conflict.
	Original string
	New      string
	// Cause wraps the underlying error for FailedInclude.
	Cause error
}

type PreprocessingErrorKind int

const (
	FailedInclude PreprocessingErrorKind = iota
	DuplicateDefine
	EmptyDefine
	DefineWithoutValue
)

func (e *PreprocessingError) Error() string {
	switch e.Kind {
	case FailedInclude:
		return fmt.Sprintf("failed to include %q: %v", e.Name, e.Cause)
	case DuplicateDefine:
		return fmt.Sprintf("duplicate define %q: original %q, new %q", e.Name, e.Original, e.New)
	case EmptyDefine:
		return "empty %define directive"
	case DefineWithoutValue:
		return fmt.Sprintf("%%define without value: %q", e.Name)
	default:
		return "preprocessing error"
	}
}

func (e *PreprocessingError) Unwrap() error { return e.Cause }

// ParseErrorKind is the taxonomy of failures while parsing a single line
// into an instruction, or while resolving labels afterward.
type ParseErrorKind int

const (
	DuplicateLabel ParseErrorKind = iota
	UndefinedLabel
	InvalidInstruction
	MissingOperand
	InvalidOperand
	ExtraToken
)

// ParseError carries the zero-based source line index and offending
// detail. The parser stops at the first error and reports it.
type ParseError struct {
	LineIndex int
	Kind      ParseErrorKind
	Text      string // label/token/mnemonic text, as applicable
	Index     int    // operand index, for MissingOperand
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case DuplicateLabel:
		return fmt.Sprintf("line %d: duplicate label %q", e.LineIndex, e.Text)
	case UndefinedLabel:
		return fmt.Sprintf("line %d: undefined label %q", e.LineIndex, e.Text)
	case InvalidInstruction:
		return fmt.Sprintf("line %d: invalid instruction %q", e.LineIndex, e.Text)
	case MissingOperand:
		return fmt.Sprintf("line %d: missing operand %d", e.LineIndex, e.Index)
	case InvalidOperand:
		return fmt.Sprintf("line %d: invalid operand %q", e.LineIndex, e.Text)
	case ExtraToken:
		return fmt.Sprintf("line %d: extra token %q", e.LineIndex, e.Text)
	default:
		return fmt.Sprintf("line %d: parse error", e.LineIndex)
	}
}

// LoadError wraps whichever of Preprocessing or Parse caused Load
// to fail. Exactly one of the two fields is non-nil.
type LoadError struct {
	Preprocessing *PreprocessingError
	Parse         *ParseError
}

func (e *LoadError) Error() string {
	if e.Preprocessing != nil {
		return e.Preprocessing.Error()
	}
	if e.Parse != nil {
		return e.Parse.Error()
	}
	return "load error"
}

func (e *LoadError) Unwrap() error {
	if e.Preprocessing != nil {
		return e.Preprocessing
	}
	return e.Parse
}

func preprocessingLoadError(err *PreprocessingError) *LoadError {
	return &LoadError{Preprocessing: err}
}

func parseLoadError(err *ParseError) *LoadError {
	return &LoadError{Parse: err}
}

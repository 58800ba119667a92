package tools

import (
	"fmt"
	"strings"

	"tinyvm/parser"
)

// LintLevel is the severity of a Finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintError {
		return "error"
	}
	return "warning"
}

// Finding is a single lint result, either a hard load error or one of
// the linter's own diagnostics (not part of the loader's error
// taxonomy, since loading itself never rejects these).
type Finding struct {
	Level   LintLevel
	Line    int
	Message string
	Code    string
}

func (f Finding) String() string {
	return fmt.Sprintf("line %d: %s: %s [%s]", f.Line, f.Level, f.Message, f.Code)
}

var unconditionalBranches = map[string]bool{
	"jmp": true, "ret": true,
}

// Lint dry-loads src and reports both the load error (if any) and
// diagnostics the loader doesn't cover: a %define name that's never
// referenced, and an instruction unreachable because it immediately
// follows an unconditional jmp/ret with no intervening label.
func Lint(src string, resolve parser.IncludeResolver) []Finding {
	var findings []Finding

	if _, loadErr := parser.Load(src, resolve); loadErr != nil {
		findings = append(findings, Finding{
			Level:   LintError,
			Message: loadErr.Error(),
			Code:    "LOAD_ERROR",
		})
	}

	findings = append(findings, checkUnusedDefines(src)...)
	findings = append(findings, checkUnreachableCode(src)...)
	return findings
}

// checkUnusedDefines flags a %define whose name is never used as a
// bare token anywhere else in the source.
func checkUnusedDefines(src string) []Finding {
	var findings []Finding
	lines := strings.Split(src, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "%define") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[1]

		used := false
		for j, other := range lines {
			if j == i {
				continue
			}
			if containsToken(other, name) {
				used = true
				break
			}
		}
		if !used {
			findings = append(findings, Finding{
				Level:   LintWarning,
				Line:    i,
				Message: fmt.Sprintf("%%define %q is never referenced", name),
				Code:    "UNUSED_DEFINE",
			})
		}
	}
	return findings
}

func containsToken(line, token string) bool {
	for _, f := range strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	}) {
		if f == token {
			return true
		}
	}
	return false
}

// checkUnreachableCode flags an instruction line that immediately
// follows an unconditional jmp/ret, skipping blank/comment-only
// lines, unless a label appears first (a jump target makes the
// following line reachable again). The line after a call is not
// flagged, since ret returns there.
func checkUnreachableCode(src string) []Finding {
	var findings []Finding
	lines := strings.Split(src, "\n")

	afterUnconditional := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "%include") || strings.HasPrefix(line, "%define") {
			continue
		}

		fields := strings.Fields(line)
		j := 0
		sawLabel := false
		for j < len(fields) && strings.HasSuffix(fields[j], ":") {
			sawLabel = true
			j++
		}
		if sawLabel {
			afterUnconditional = false
		}
		rest := fields[j:]
		if len(rest) == 0 {
			continue
		}

		if afterUnconditional {
			findings = append(findings, Finding{
				Level:   LintWarning,
				Line:    i,
				Message: fmt.Sprintf("instruction %q is unreachable", rest[0]),
				Code:    "UNREACHABLE_CODE",
			})
		}

		afterUnconditional = unconditionalBranches[strings.ToLower(rest[0])]
	}
	return findings
}

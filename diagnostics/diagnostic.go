// Package diagnostics turns match check reports into user-facing diagnostics.
package diagnostics

import (
	"strings"

	"github.com/cottand/matchck/frontend/ast"
)

type Kind uint8

const (
	KindMissingMatchArms Kind = iota
	KindInternalBailedOut
	KindMissingPatFields
)

// Code is the stable identifier of a kind of diagnostic
func (k Kind) Code() string {
	switch k {
	case KindMissingMatchArms:
		return "missing-match-arm"
	case KindInternalBailedOut:
		return "internal:match-check-bailed-out"
	case KindMissingPatFields:
		return "missing-fields"
	default:
		return "invalid"
	}
}

// AnyDiagnostic is one of MissingMatchArms, InternalBailedOut or MissingPatFields.
// Its position is the range the diagnostic is displayed at.
type AnyDiagnostic interface {
	ast.Positioner
	Kind() Kind
	Message() string
	// File is the name of the file the range belongs to
	File() string
	diagnostic()
}

// Location places a diagnostic in a file
type Location struct {
	ast.Range
	FileName string
}

func (l Location) File() string { return l.FileName }

// MissingMatchArms is reported at the scrutinee of a match that does not cover
// every value of its type
type MissingMatchArms struct {
	// Location is the scrutinee
	Location
	MatchExpr ast.Range
	ArmList   ast.Range
	// Witnesses are example values no arm matches
	Witnesses []string
	// Truncated is set when more witnesses exist than were computed
	Truncated bool
}

func (*MissingMatchArms) Kind() Kind      { return KindMissingMatchArms }
func (*MissingMatchArms) Message() string { return "missing match arm" }

// WitnessSummary renders the witnesses the way rustc lists them
func (d *MissingMatchArms) WitnessSummary() string {
	quoted := make([]string, len(d.Witnesses))
	for i, w := range d.Witnesses {
		quoted[i] = "`" + w + "`"
	}
	summary := strings.Join(quoted, ", ")
	if d.Truncated {
		summary += " and more"
	}
	return summary + " not covered"
}

// InternalBailedOut is reported at the first arm the checker could not make sense of.
// The match is not checked any further.
type InternalBailedOut struct {
	Location
	Reason string
}

func (*InternalBailedOut) Kind() Kind      { return KindInternalBailedOut }
func (*InternalBailedOut) Message() string { return "Internal: match check bailed out" }

// MissingPatFields is reported at the path of a record pattern that neither lists
// every field nor ends with `..`
type MissingPatFields struct {
	Location
	// Fields are in declaration order
	Fields []string
}

func (*MissingPatFields) Kind() Kind { return KindMissingPatFields }
func (d *MissingPatFields) Message() string {
	sb := strings.Builder{}
	sb.WriteString("Missing structure fields:")
	for _, f := range d.Fields {
		sb.WriteString("\n- ")
		sb.WriteString(f)
	}
	return sb.String()
}

func (*MissingMatchArms) diagnostic()  {}
func (*InternalBailedOut) diagnostic() {}
func (*MissingPatFields) diagnostic()  {}

// Package matchcheck decides whether the arms of a match cover every value of the
// scrutinee, and produces example values when they do not.
//
// Arm patterns are first deconstructed into canonical patterns (constructors applied
// to sub-patterns), then checked with the usefulness algorithm over a pattern matrix.
// Any pattern the checker does not model makes it abstain rather than guess.
package matchcheck

import (
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/frontend/types"
	"github.com/cottand/matchck/internal/log"
)

var logger = log.DefaultLogger.With("section", "matchcheck")

type Config struct {
	// MaxWitnesses caps the number of example values reported for one match
	MaxWitnesses int `yaml:"maxWitnesses"`
}

const DefaultMaxWitnesses = 3

func DefaultConfig() Config {
	return Config{MaxWitnesses: DefaultMaxWitnesses}
}

type Outcome uint8

const (
	OutcomeExhaustive Outcome = iota
	OutcomeMissing
	OutcomeAbstain
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExhaustive:
		return "exhaustive"
	case OutcomeMissing:
		return "missing"
	case OutcomeAbstain:
		return "abstain"
	default:
		return "invalid"
	}
}

type ArmReport struct {
	Pat       *Pat
	HasGuard  bool
	Reachable bool
}

// Report is the result of checking one match
type Report struct {
	Outcome Outcome
	// Witnesses are uncovered values of the scrutinee type, in constructor declaration order
	Witnesses []*Pat
	Truncated bool
	// Arms is only filled when every arm could be deconstructed
	Arms []ArmReport
	// BailedArm is the arm that made the checker abstain, or -1
	BailedArm int
	Reason    string
}

// Checker checks matches of one crate. It holds no per-match state and can be shared
// between goroutines.
type Checker struct {
	engine engine
}

func NewChecker(cat *Catalog, cfg Config) *Checker {
	if cfg.MaxWitnesses <= 0 {
		cfg.MaxWitnesses = DefaultMaxWitnesses
	}
	return &Checker{engine: engine{cat: cat, maxWitnesses: cfg.MaxWitnesses}}
}

func abstained(arm int, reason string) Report {
	logger.Debug("match check abstained", "arm", arm, "reason", reason)
	return Report{Outcome: OutcomeAbstain, BailedArm: arm, Reason: reason}
}

// Check decides whether arms cover every value of scrutinee.
// Guarded arms are checked for reachability but never count toward coverage.
func (ch *Checker) Check(scrutinee types.Type, arms []hir.Arm) Report {
	if types.IsUnknown(scrutinee) {
		return abstained(-1, "scrutinee type is unknown")
	}
	lowered := make([]*Pat, len(arms))
	for i, arm := range arms {
		lowered[i] = LowerArm(arm.Pat, scrutinee)
		if opaque := lowered[i].FindOpaque(); opaque != nil {
			return abstained(i, opaque.Reason)
		}
	}

	cols := []column{{ty: scrutinee}}
	report := Report{BailedArm: -1, Arms: make([]ArmReport, len(arms))}
	m := matrix{}
	for i, p := range lowered {
		r := ch.engine.isUseful(m, rowOf(p), cols, false)
		if r.Kind == Abstain {
			return abstained(i, r.Reason)
		}
		report.Arms[i] = ArmReport{Pat: p, HasGuard: arms[i].HasGuard, Reachable: r.Kind == Useful}
		if !arms[i].HasGuard {
			m = m.push(rowOf(p))
		}
	}

	r := ch.engine.isUseful(m, rowOf(Wild(scrutinee)), cols, true)
	switch r.Kind {
	case Abstain:
		arm := -1
		if len(arms) > 0 {
			arm = 0
		}
		return abstained(arm, r.Reason)
	case Useful:
		report.Outcome = OutcomeMissing
		report.Truncated = r.Truncated
		for _, w := range r.Witnesses {
			report.Witnesses = append(report.Witnesses, w[0])
		}
		logger.Debug("match is missing arms", "scrutinee", scrutinee.TypeName(), "witnesses", report.Witnesses)
	default:
		report.Outcome = OutcomeExhaustive
	}
	return report
}

// IsUseful reports whether v matches some value, made of one value per type in tys,
// that no row of rows matches. Every row and v must have one pattern per type.
func (ch *Checker) IsUseful(rows [][]*Pat, v []*Pat, tys []types.Type) Usefulness {
	m := matrix{rows: make([]row, len(rows))}
	for i, r := range rows {
		m.rows[i] = rowOf(r...)
	}
	return ch.engine.isUseful(m, rowOf(v...), columnsOf(tys), true)
}

// ComputeMissing returns the values of tys not matched by any of rows
func (ch *Checker) ComputeMissing(rows [][]*Pat, tys []types.Type) Usefulness {
	return ch.IsUseful(rows, wilds(tys), tys)
}

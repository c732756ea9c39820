package diagnostics

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/cottand/matchck/frontend/ast"
	"github.com/cottand/matchck/frontend/hir"
	"github.com/cottand/matchck/internal/log"
	"github.com/cottand/matchck/matchcheck"
	"github.com/hashicorp/go-set/v3"
	xset "github.com/xtgo/set"
	"golang.org/x/sync/errgroup"
)

var logger = log.DefaultLogger.With("section", "diagnostics")

// Validator checks matches and pushes what it finds to a Sink.
// It keeps one checker per crate, since non-exhaustive enums read differently
// from inside and outside of their crate.
type Validator struct {
	sink Sink
	cfg  matchcheck.Config

	mu       sync.Mutex
	checkers map[string]*matchcheck.Checker
}

func NewValidator(sink Sink, cfg matchcheck.Config) *Validator {
	return &Validator{
		sink:     sink,
		cfg:      cfg,
		checkers: make(map[string]*matchcheck.Checker),
	}
}

func (v *Validator) checker(crate string) *matchcheck.Checker {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch, ok := v.checkers[crate]
	if !ok {
		ch = matchcheck.NewChecker(matchcheck.NewCatalog(crate), v.cfg)
		v.checkers[crate] = ch
	}
	return ch
}

// ValidateMatch checks m, pushes its diagnostics and returns the full report
func (v *Validator) ValidateMatch(m *hir.Match) matchcheck.Report {
	for _, arm := range m.Arms {
		v.checkRecordFields(m.File, arm.Pat)
	}

	report := v.checker(m.Crate).Check(m.ScrutineeType, m.Arms)
	switch report.Outcome {
	case matchcheck.OutcomeAbstain:
		if report.BailedArm < 0 {
			return report
		}
		v.sink.Push(&InternalBailedOut{
			Location: Location{Range: m.Arms[report.BailedArm].Range, FileName: m.File},
			Reason:   report.Reason,
		})
	case matchcheck.OutcomeMissing:
		witnesses := make([]string, len(report.Witnesses))
		for i, w := range report.Witnesses {
			witnesses[i] = matchcheck.Render(w)
		}
		v.sink.Push(&MissingMatchArms{
			Location:  Location{Range: m.Scrutinee, FileName: m.File},
			MatchExpr: m.MatchExpr,
			ArmList:   m.ArmList,
			Witnesses: witnesses,
			Truncated: report.Truncated,
		})
	}
	return report
}

// ValidateAll checks matches with at most parallelism of them in flight.
// Reports are in the order of matches. The only error is the cancellation of ctx.
func (v *Validator) ValidateAll(ctx context.Context, matches []*hir.Match, parallelism int) ([]matchcheck.Report, error) {
	reports := make([]matchcheck.Report, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, m := range matches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = v.ValidateMatch(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("validated matches", "count", len(matches), "parallelism", parallelism)
	return reports, nil
}

// checkRecordFields reports the record patterns inside p that leave fields out
func (v *Validator) checkRecordFields(file string, p hir.Pat) {
	switch p := p.(type) {
	case *hir.CtorPat:
		for _, elem := range p.Elems {
			v.checkRecordFields(file, elem)
		}
		given := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			given[i] = f.Name
			v.checkRecordFields(file, f.Pat)
		}
		if p.Shape != ast.RecordFields || p.HasRest || !p.Def.Resolved() {
			return
		}
		if p.Def.Adt.Variants[p.Def.Variant].Shape != ast.RecordFields {
			return
		}
		if missing := missingFields(declaredNames(p.Def), given); len(missing) > 0 {
			v.sink.Push(&MissingPatFields{
				Location: Location{Range: p.Path.Range, FileName: file},
				Fields:   missing,
			})
		}
	case *hir.BindPat:
		if p.Sub != nil {
			v.checkRecordFields(file, p.Sub)
		}
	case *hir.TuplePat:
		for _, elem := range p.Elems {
			v.checkRecordFields(file, elem)
		}
	case *hir.RefPat:
		v.checkRecordFields(file, p.Inner)
	case *hir.OrPat:
		for _, alt := range p.Alts {
			v.checkRecordFields(file, alt)
		}
	case *hir.SlicePat:
		for _, sub := range slices.Concat(p.Prefix, p.Suffix) {
			v.checkRecordFields(file, sub)
		}
	}
}

func declaredNames(def hir.Def) []string {
	fields := def.Adt.Variants[def.Variant].Fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// missingFields returns the names of declared absent from given, in declaration order
func missingFields(declared, given []string) []string {
	pivot := sortedUniq(declared)
	data := append(pivot, sortedUniq(given)...)
	n := xset.Diff(sort.StringSlice(data), len(pivot))
	missing := set.From(data[:n])
	return slices.DeleteFunc(slices.Clone(declared), func(name string) bool {
		return !missing.Contains(name)
	})
}

func sortedUniq(s []string) []string {
	s = slices.Clone(s)
	sort.Strings(s)
	return s[:xset.Uniq(sort.StringSlice(s))]
}

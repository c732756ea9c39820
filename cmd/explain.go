package cmd

import (
	"fmt"
	"io"

	"github.com/cottand/matchck/matchcheck"
	"github.com/cottand/matchck/matchck"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	tp "github.com/xlab/treeprint"
)

var ExplainCmd = &cobra.Command{
	Use:          "explain ./folder|file.rs",
	Short:        "Print how every match is checked: its arms as constructors, and the values they miss",
	RunE:         runExplain,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	pkg, err := loadTarget(cmd.Context(), args[0], cfg)
	if err != nil {
		return errors.Wrap(err, "could not check target")
	}
	explain(cmd.OutOrStdout(), pkg)
	return nil
}

func explain(out io.Writer, pkg *matchck.Package) {
	for _, e := range pkg.Errors().Errors() {
		_, _ = fmt.Fprintln(out, pkg.FormatError(e))
	}
	for _, r := range pkg.Reports() {
		_, _ = fmt.Fprint(out, explainTree(pkg, r).String())
	}
}

// explainTree shows one match as a tree
func explainTree(pkg *matchck.Package, r matchck.MatchReport) tp.Tree {
	tree := tp.New()
	m := r.Match
	root := tree.AddBranch(fmt.Sprintf("match %s: %s (%s, in %s)", pkg.Text(m.Scrutinee), m.ScrutineeType.TypeName(), pkg.Position(m.Scrutinee), m.Owner))

	switch r.Outcome {
	case matchcheck.OutcomeAbstain:
		if r.BailedArm >= 0 {
			root.AddNode(fmt.Sprintf("not checked: %s, at %s", r.Reason, pkg.Text(m.Arms[r.BailedArm])))
		} else {
			root.AddNode("not checked: " + r.Reason)
		}
		return tree
	case matchcheck.OutcomeExhaustive:
		root.AddNode("exhaustive")
	case matchcheck.OutcomeMissing:
		missing := root.AddBranch("missing")
		for _, w := range r.Witnesses {
			missing.AddNode(matchcheck.Render(w))
		}
		if r.Truncated {
			missing.AddNode("...")
		}
	}

	if len(r.Arms) == 0 {
		return tree
	}
	arms := root.AddBranch("arms")
	for i, arm := range r.Arms {
		label := matchcheck.Render(arm.Pat)
		if arm.HasGuard {
			label += " if .."
		}
		if !arm.Reachable {
			label += " (unreachable)"
		}
		arms.AddMetaNode(i, label)
	}
	return tree
}

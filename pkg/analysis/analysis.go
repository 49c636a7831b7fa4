// Package analysis runs the registered analyses over loaded methods and
// collects their results into reports.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/go-dataflow/internal/log"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/deadcode"
	"github.com/l3aro/go-dataflow/pkg/irdoc"
	"github.com/l3aro/go-dataflow/pkg/report"
)

// ErrUnknownAnalysis is returned when an analysis ID is not registered.
var ErrUnknownAnalysis = errors.New("unknown analysis")

// Descriptor describes a registered analysis.
type Descriptor struct {
	ID          string
	Description string
	Requires    []string // analyses whose results this one reads
}

var registry = []Descriptor{
	{
		ID:          constprop.ID,
		Description: "constant propagation over int-like variables",
	},
	{
		ID:          deadcode.ID,
		Description: "unreachable code and dead assignments",
		Requires:    []string{constprop.ID},
	},
}

// Registered returns every known analysis in execution order.
func Registered() []Descriptor {
	return slices.Clone(registry)
}

func lookup(id string) (Descriptor, bool) {
	for _, d := range registry {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Plan returns the analyses to run for the requested IDs: requirements are
// added, duplicates dropped, and every analysis comes after the ones it requires.
func Plan(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no analysis requested", ErrUnknownAnalysis)
	}

	var plan []string
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		if slices.Contains(plan, id) {
			return nil
		}
		if slices.Contains(path, id) {
			return fmt.Errorf("analysis %s requires itself: %s", id, strings.Join(append(path, id), " -> "))
		}
		d, ok := lookup(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAnalysis, id)
		}
		for _, req := range d.Requires {
			if err := visit(req, append(path, id)); err != nil {
				return err
			}
		}
		plan = append(plan, id)
		return nil
	}

	for _, id := range ids {
		if err := visit(id, nil); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Options controls Run and RunAll.
type Options struct {
	Analyses []string
	Solver   dataflow.SolverKind
	Workers  int  // methods analyzed concurrently by RunAll
	Graph    bool // include the CFG in each report
	Logger   log.Logger
}

func (o Options) logger() log.Logger {
	if o.Logger == nil {
		return log.Discard()
	}
	return o.Logger
}

// Run analyzes one method.
func Run(u *irdoc.Unit, opts Options) (*report.Report, error) {
	plan, err := Plan(opts.Analyses)
	if err != nil {
		return nil, err
	}
	solver := opts.Solver
	if solver == "" {
		solver = dataflow.SolverWorklist
	}
	logger := opts.logger()

	r := report.New(u.Method, plan...)
	r.Source = u.Source
	if opts.Graph {
		r.Graph = report.FromCFG(u.CFG)
	}

	var constants *dataflow.Result[*constprop.Fact]
	for _, id := range plan {
		switch id {
		case constprop.ID:
			constants = constprop.Solve(u.CFG, solver)
			r.Facts = report.FromConstants(u.CFG, constants)
		case deadcode.ID:
			r.DeadCode = report.FromDeadCode(deadcode.Detect(u.CFG, constants, u.LiveVars))
		}
	}

	logger.Debug("analyzed method",
		"method", u.Method.Name,
		"source", u.Source,
		"solver", solver,
		"analyses", strings.Join(plan, ","),
		"dead", len(r.DeadCode))
	return r, nil
}

// RunAll analyzes units concurrently with at most opts.Workers in flight.
// Reports are returned in the order of units. The first error cancels the
// remaining work.
func RunAll(ctx context.Context, units []*irdoc.Unit, opts Options) ([]*report.Report, error) {
	if _, err := Plan(opts.Analyses); err != nil {
		return nil, err
	}

	reports := make([]*report.Report, len(units))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	for i, u := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Run(u, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", u.Method.Name, err)
			}
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// pattern: Imperative Shell

package status

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"devhub/internal/logging"
	"devhub/internal/project"
)

// DefaultConcurrency bounds the number of probes running at once.
const DefaultConcurrency = 8

// Prober reports the git status of a directory. Implementations must not fail;
// anything unknown is project.NotRepo().
type Prober interface {
	Probe(ctx context.Context, path string) project.GitStatus
}

// Result is one joined, sorted refresh tagged with the generation that asked for it.
type Result struct {
	Generation uint64
	Projects   []project.WithStatus
}

// Aggregator fans status probes out across a project list.
// Begin hands out generations; only the latest one is current.
type Aggregator struct {
	prober     Prober
	limit      int
	generation atomic.Uint64
	logger     *logging.ScopedLogger
}

// New creates an aggregator. A limit of zero or less uses DefaultConcurrency.
func New(prober Prober, limit int, logger *logging.ScopedLogger) *Aggregator {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Aggregator{prober: prober, limit: limit, logger: logger}
}

// Begin issues a new generation, superseding every earlier one.
func (a *Aggregator) Begin() uint64 {
	return a.generation.Add(1)
}

// Current returns the latest issued generation.
func (a *Aggregator) Current() uint64 {
	return a.generation.Load()
}

// IsCurrent reports whether a result for gen may still be applied.
func (a *Aggregator) IsCurrent(gen uint64) bool {
	return gen == a.generation.Load()
}

// Collect probes every project concurrently and returns the joined result
// sorted for display. It blocks until every probe has returned.
func (a *Aggregator) Collect(ctx context.Context, gen uint64, projects []project.Project) Result {
	start := time.Now()
	out := make([]project.WithStatus, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit)
	for i, p := range projects {
		g.Go(func() error {
			git := project.NotRepo()
			if gctx.Err() == nil {
				git = a.prober.Probe(gctx, p.Path).Normalize()
			}
			out[i] = project.WithStatus{Project: p, Git: git}
			return nil
		})
	}
	_ = g.Wait() // probes never fail

	Sort(out)
	a.logger.Debug("status refresh collected",
		"generation", gen,
		"projects", len(out),
		"duration", time.Since(start).String())
	return Result{Generation: gen, Projects: out}
}

// Refresh issues a generation and collects it.
func (a *Aggregator) Refresh(ctx context.Context, projects []project.Project) Result {
	return a.Collect(ctx, a.Begin(), projects)
}

// Sort orders by last access, most recent first, with never-accessed projects
// last, then by name ignoring case.
func Sort(items []project.WithStatus) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := items[i].AccessedUnix(), items[j].AccessedUnix()
		if ai != aj {
			return ai > aj
		}
		li, lj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if li != lj {
			return li < lj
		}
		return items[i].Name < items[j].Name
	})
}

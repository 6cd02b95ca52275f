package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/carbonflow/carbonflow/internal/greenops"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/logging"
	"github.com/carbonflow/carbonflow/internal/model"
)

// cancelCheckEvery is how many samples a chunk draws between context checks.
const cancelCheckEvery = 1024

func stepUncertainty(ctx context.Context, r *run) (any, error) {
	u := r.in.Config.Uncertainty
	if !u.Active() {
		return nil, nil
	}

	base := make([]float64, 0, len(r.in.Nodes))
	for _, n := range r.in.Nodes {
		base = append(base, r.nodeGWP[n.ID])
	}

	samples, err := MonteCarlo(ctx, base, u)
	if err != nil {
		return nil, computationErrorf(StepUncertaintyAnalysis, err, "monte carlo sampling")
	}
	res := Summarize(samples, u.ConfidenceLevel)
	r.uncertainty = &res

	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "engine").
		Str("session_id", r.session.id).
		Int("iterations", res.Iterations).
		Float64("mean", res.Mean).
		Float64("std_dev", res.StdDev).
		Msg("uncertainty analysis done")
	return r.uncertainty, nil
}

// MonteCarlo draws u.Iterations samples of the total footprint. Each
// sample scales every base value by an independent uniform factor in
// [1-p, 1+p]. Samples are drawn in parallel chunks, each with its own PCG
// stream derived from the seed, so a fixed non-zero seed reproduces the
// same samples for the same worker count.
func MonteCarlo(ctx context.Context, base []float64, u lcaconfig.UncertaintyConfig) ([]float64, error) {
	n := u.Iterations
	if n <= 0 {
		return nil, nil
	}
	p := u.Perturbation
	if p == 0 {
		p = lcaconfig.DefaultPerturbation
	}
	seed := u.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	workers := u.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	samples := make([]float64, n)
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		lo, hi := w*chunk, min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, uint64(w)))
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				var total float64
				for _, v := range base {
					total += v * (1 + p*(2*rng.Float64()-1))
				}
				samples[i] = total
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}

// Summarize computes the distribution statistics of the samples: mean,
// sample standard deviation (N-1), the normal interval at the confidence
// level, the 5th and 95th percentiles and the coefficient of variation.
func Summarize(samples []float64, confidence float64) model.UncertaintyResult {
	res := model.UncertaintyResult{Iterations: len(samples), ConfidenceLevel: confidence, Unit: greenops.CarbonUnit}
	if len(samples) == 0 {
		return res
	}
	if confidence <= 0 || confidence >= 1 {
		confidence = lcaconfig.DefaultConfidenceLevel
		res.ConfidenceLevel = confidence
	}

	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))

	var ss float64
	for _, s := range samples {
		d := s - mean
		ss += d * d
	}
	var std float64
	if len(samples) > 1 {
		std = math.Sqrt(ss / float64(len(samples)-1))
	}

	z := math.Sqrt2 * math.Erfinv(confidence)
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	res.Mean = mean
	res.StdDev = std
	res.LowerBound = mean - z*std
	res.UpperBound = mean + z*std
	res.P5 = percentile(sorted, 0.05)
	res.P95 = percentile(sorted, 0.95)
	if mean != 0 {
		res.CoefficientOfVariation = std / math.Abs(mean)
	}
	return res
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

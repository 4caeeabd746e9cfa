package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/hupe1980/spectra"
	"github.com/hupe1980/spectra/transform"
	"github.com/hupe1980/spectra/vector"
)

// zetaExponent is the power-law exponent applied by the weighting stage.
const zetaExponent = 0.5

// Tuning holds the resonator parameters used by the filtering stage.
type Tuning struct {
	Bandwidth float64
	Damping   float64
}

// Options contains configuration options for a pipeline.
type Options struct {
	// Samples is the number of draws for the collapse stage.
	Samples int

	// Depth picks the Bell smoothing order as floor(Depth*10), clamped to
	// [1, 20].
	Depth float64

	// MaxLayers caps the modulation stage layer count.
	MaxLayers int

	// Bandwidth is the base resonator bandwidth. Adaptive runs narrow it
	// as the association score grows.
	Bandwidth float64

	// Damping is the base resonator damping. Adaptive runs raise it as the
	// association score grows.
	Damping float64

	// Epsilon is the numeric floor for probability and ratio computations.
	// When zero, the store's configured floor is used.
	Epsilon float64

	// Adaptive retunes the resonator before each run from the store's
	// nearest neighbors.
	Adaptive bool

	// NeighborK is the number of neighbors consulted for adaptive tuning.
	NeighborK int

	// Seed drives vector generation and collapse sampling.
	Seed int64

	// Logger configures structured logging. Defaults to a noop logger.
	Logger *spectra.Logger
}

// DefaultOptions contains the default configuration options for a pipeline.
var DefaultOptions = Options{
	Samples:   1000,
	Depth:     0.5,
	MaxLayers: 20,
	Bandwidth: 0.05,
	Damping:   0.1,
	Epsilon:   0,
	Adaptive:  true,
	NeighborK: 5,
	Seed:      1,
	Logger:    nil,
}

// Result holds everything one run produced: the generated input, the
// filtered vector that was stored, the per-stage metrics and the tuning the
// resonator ran with.
type Result struct {
	ID       string
	Kind     vector.Kind
	Original []float64
	Filtered []float64

	Collapse transform.CollapseResult
	Zeta     transform.ZetaResult
	Bell     transform.BellResult
	Modulate transform.ModulateResult
	Resonate transform.ResonateResult

	Tuning Tuning
}

// metadata flattens the run into the record stored next to the filtered
// vector. The original vector rides along so later runs can tune against it.
func (r *Result) metadata() spectra.Metadata {
	return spectra.Metadata{
		"run_id":          r.ID,
		"kind":            string(r.Kind),
		"entropy":         r.Collapse.Entropy,
		"kl_divergence":   r.Collapse.KLDivergence,
		"unique_outcomes": r.Collapse.Unique,
		"correlation":     r.Collapse.Correlation,
		"amplification":   r.Zeta.Amplification,
		"energy_ratio":    r.Zeta.EnergyRatio,
		"improvement":     r.Bell.Improvement,
		"noise_reduction": r.Bell.NoiseReduction,
		"best_layer":      r.Modulate.BestLayer,
		"stability":       r.Modulate.Stability,
		"q_factor":        r.Resonate.Q,
		"efficiency":      r.Resonate.Efficiency,
		"vector":          r.Original,
	}
}

// Pipeline chains the transforms over generated vectors and stores each
// result.
//
// It is not safe for concurrent use; it assumes a single owner, like the
// store it feeds.
type Pipeline struct {
	opts      Options
	store     *spectra.Store
	generator *vector.Generator
	src       rand.Source
	tuning    Tuning
}

// New creates a new Pipeline on top of the given store. The pipeline
// generates vectors of the store's dimension and starts with the base
// resonator tuning.
func New(store *spectra.Store, optFns ...func(o *Options)) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("store must not be nil")
	}

	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = spectra.NoopLogger()
	}

	if opts.Epsilon <= 0 {
		opts.Epsilon = store.Epsilon()
	}

	if opts.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", opts.Samples)
	}

	if opts.MaxLayers < 1 {
		return nil, fmt.Errorf("max layers must be positive, got %d", opts.MaxLayers)
	}

	if opts.Bandwidth <= 0 {
		return nil, fmt.Errorf("bandwidth must be positive, got %g", opts.Bandwidth)
	}

	if opts.Damping <= 0 {
		return nil, fmt.Errorf("damping must be positive, got %g", opts.Damping)
	}

	if opts.NeighborK < 1 {
		return nil, fmt.Errorf("neighbor k must be positive, got %d", opts.NeighborK)
	}

	return &Pipeline{
		opts:      opts,
		store:     store,
		generator: vector.NewGenerator(store.Dimension(), opts.Seed),
		src:       rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)),
		tuning:    Tuning{Bandwidth: opts.Bandwidth, Damping: opts.Damping},
	}, nil
}

// Tuning returns the resonator parameters the next run will use.
func (p *Pipeline) Tuning() Tuning { return p.tuning }

// Run generates one vector of the given kind, pushes it through the
// transform chain and stores the filtered result with its stage metrics as
// metadata. When adaptive tuning is on, the resonator parameters are
// derived from the store's nearest neighbors first.
func (p *Pipeline) Run(ctx context.Context, kind vector.Kind) (*Result, error) {
	original, err := p.generator.Generate(kind)
	if err != nil {
		return nil, err
	}

	if p.opts.Adaptive {
		if err := p.adapt(ctx, original); err != nil {
			return nil, err
		}
	}

	collapse, err := transform.Collapse(original, p.opts.Samples, p.opts.Epsilon, p.src)
	if err != nil {
		return nil, err
	}

	zeta, err := transform.Zeta(original, zetaExponent, p.opts.Epsilon)
	if err != nil {
		return nil, err
	}

	bell, err := transform.Bell(zeta.Transformed, p.opts.Depth, p.opts.Epsilon)
	if err != nil {
		return nil, err
	}

	modulate, err := transform.Modulate(bell.Smoothed, p.opts.MaxLayers, p.opts.Epsilon)
	if err != nil {
		return nil, err
	}

	resonate, err := transform.Resonate(modulate.Modulated, p.tuning.Bandwidth, p.tuning.Damping, p.opts.Epsilon)
	if err != nil {
		// The chain still yields a result: pass the signal through the
		// way a unit resonator would.
		p.opts.Logger.WarnContext(ctx, "resonance failed, passing signal through", "error", err)

		resonate = transform.ResonateResult{
			Filtered:   slices.Clone(modulate.Modulated),
			Q:          1,
			Efficiency: 1,
		}
	}

	result := &Result{
		ID:       uuid.NewString(),
		Kind:     kind,
		Original: original,
		Filtered: resonate.Filtered,
		Collapse: collapse,
		Zeta:     zeta,
		Bell:     bell,
		Modulate: modulate,
		Resonate: resonate,
		Tuning:   p.tuning,
	}

	if err := p.store.Insert(ctx, vector.ToFloat32(resonate.Filtered), result.metadata()); err != nil {
		return nil, err
	}

	p.opts.Logger.DebugContext(ctx, "run completed",
		"run_id", result.ID,
		"kind", string(kind),
		"best_layer", modulate.BestLayer,
		"efficiency", resonate.Efficiency,
	)

	return result, nil
}

// RunBatch performs n sequential runs of the same kind.
func (p *Pipeline) RunBatch(ctx context.Context, kind vector.Kind, n int) ([]*Result, error) {
	results := make([]*Result, 0, n)

	for range n {
		result, err := p.Run(ctx, kind)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

// adapt derives the resonator tuning from how strongly vec associates with
// its nearest stored neighbors. Neighbors inserted without an original
// vector are skipped; without usable neighbors the tuning keeps its
// previous value.
func (p *Pipeline) adapt(ctx context.Context, vec []float64) error {
	neighbors, err := p.store.Query(ctx, vector.ToFloat32(vec), p.opts.NeighborK)
	if err != nil {
		return err
	}

	group := make([][]float64, 0, len(neighbors)+1)
	for _, n := range neighbors {
		if original, ok := n.Metadata["vector"].([]float64); ok {
			group = append(group, original)
		}
	}

	if len(group) == 0 {
		return nil
	}

	group = append(group, vec)

	score, err := associationScore(group)
	if err != nil {
		p.opts.Logger.WarnContext(ctx, "association scoring failed, keeping tuning", "error", err)

		return nil
	}

	p.tuning = Tuning{
		Bandwidth: p.opts.Bandwidth / (1 + score),
		Damping:   p.opts.Damping * (1 + score),
	}

	p.opts.Logger.DebugContext(ctx, "tuning adapted",
		"score", score,
		"bandwidth", p.tuning.Bandwidth,
		"damping", p.tuning.Damping,
	)

	return nil
}

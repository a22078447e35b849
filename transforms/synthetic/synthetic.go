// Package synthetic produces elements and load.
// Typically used for exercising pipelines in tests and examples when the
// shape of the data matters more than its content.
package synthetic

import (
	"math/rand/v2"
	"time"

	"beamlet.dev/beam"
)

// SourceConfig controls what a [Source] emits.
type SourceConfig struct {
	NumRecords         int
	KeySize, ValueSize int
	// NumDistinctKeys bounds the key space; zero means every key is
	// unique. Useful for feeding grouped transforms.
	NumDistinctKeys int
	// Seed fixes the generated records for reproducible runs.
	Seed uint64
}

type sourceFn struct {
	cfg SourceConfig

	Output beam.PCol[beam.KV[string, string]]
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func randString(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.IntN(len(letters))]
	}
	return string(b)
}

func (fn *sourceFn) ProcessBundle(dfc *beam.DFC[[]byte]) error {
	return dfc.Process(func(ec beam.ElmC, _ []byte) error {
		rng := rand.New(rand.NewPCG(fn.cfg.Seed, 0))
		var keys []string
		if n := fn.cfg.NumDistinctKeys; n > 0 {
			keys = make([]string, 0, n)
			for range n {
				keys = append(keys, randString(rng, fn.cfg.KeySize))
			}
		}
		for range fn.cfg.NumRecords {
			var key string
			if keys != nil {
				key = keys[rng.IntN(len(keys))]
			} else {
				key = randString(rng, fn.cfg.KeySize)
			}
			fn.Output.Emit(ec, beam.Pair(key, randString(rng, fn.cfg.ValueSize)))
		}
		return nil
	})
}

// Source emits cfg.NumRecords pseudo random key value records.
func Source(s *beam.Scope, cfg SourceConfig, opts ...beam.Options) beam.PCol[beam.KV[string, string]] {
	imp := beam.Impulse(s)
	out := beam.ParDo(s, imp, &sourceFn{cfg: cfg}, opts...)
	return out.Output
}

// StepConfig controls a [Step]'s behavior.
type StepConfig struct {
	PerElementDelay time.Duration
	PerBundleDelay  time.Duration
	// OutputPerInput is how many copies of each input to emit. Zero drops
	// everything.
	OutputPerInput uint
	// FilterRatio is the probability an input is dropped before fan out.
	FilterRatio float64
	Seed        uint64
}

// stepFn is a DoFn which can be controlled with prespecified parameters.
type stepFn[E beam.Element] struct {
	cfg StepConfig

	beam.OnBundleFinish
	Output beam.PCol[E]
}

func (fn *stepFn[E]) ProcessBundle(dfc *beam.DFC[E]) error {
	startTime := time.Now()
	rng := rand.New(rand.NewPCG(fn.cfg.Seed, 1))

	fn.OnBundleFinish.Do(dfc, func() error {
		// The target is for the enclosing stage to take as close as
		// possible the configured duration, so only sleep enough to make
		// up for overheads not incurred elsewhere.
		time.Sleep(fn.cfg.PerBundleDelay - time.Since(startTime))
		return nil
	})

	return dfc.Process(func(ec beam.ElmC, e E) error {
		time.Sleep(fn.cfg.PerElementDelay)
		if fn.cfg.FilterRatio > 0 && rng.Float64() < fn.cfg.FilterRatio {
			return nil
		}
		for range fn.cfg.OutputPerInput {
			fn.Output.Emit(ec, e)
		}
		return nil
	})
}

// Step applies a configurable pass through stage: optional per element
// delay, probabilistic filtering, and fan out.
func Step[E beam.Element](s *beam.Scope, input beam.PCol[E], cfg StepConfig, opts ...beam.Options) beam.PCol[E] {
	out := beam.ParDo(s, input, &stepFn[E]{cfg: cfg}, opts...)
	return out.Output
}

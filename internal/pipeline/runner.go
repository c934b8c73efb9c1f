package pipeline

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/atlasmet/extremecast/internal/artifact"
	"github.com/atlasmet/extremecast/internal/knowledge"
	"github.com/atlasmet/extremecast/internal/model"
	"github.com/atlasmet/extremecast/internal/models"
)

// ModelLoader resolves the model for an artifact directory. The default
// loads the local readout; the server swaps in a remote client.
type ModelLoader func(dir string) (model.Model, error)

// Runner executes the forecast pipeline. It holds no mutable state, so
// concurrent runs for the same or different artifacts are safe.
type Runner struct {
	clock     clockwork.Clock
	loadModel ModelLoader
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock injects the time source used for the generation timestamp.
func WithClock(c clockwork.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithModelLoader overrides how models are resolved per artifact.
func WithModelLoader(load ModelLoader) Option {
	return func(r *Runner) { r.loadModel = load }
}

// NewRunner returns a Runner with a real clock and local model loading.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		clock: clockwork.NewRealClock(),
		loadModel: func(dir string) (model.Model, error) {
			return model.LoadAffine(dir)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the artifact bundle at artifactPath and produces a full
// forecast result: assembled days carrying their matching events plus
// the top-level summary and recommendations.
func (r *Runner) Run(artifactPath string) (*models.Result, error) {
	bundle, err := artifact.Load(artifactPath)
	if err != nil {
		return nil, err
	}
	m, err := r.loadModel(artifactPath)
	if err != nil {
		return nil, err
	}
	return r.RunBundle(bundle, m)
}

// RunBundle executes the pipeline against an already-loaded bundle and
// model. Deterministic apart from the generation timestamp.
func (r *Runner) RunBundle(bundle *artifact.Bundle, m model.Model) (*models.Result, error) {
	window, err := BuildWindow(bundle.History, bundle.FeatureCols, bundle.FeatureScaler)
	if err != nil {
		return nil, err
	}

	flat, err := m.Predict(window)
	if err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	lastDate := bundle.History[len(bundle.History)-1].Date
	days, err := Assemble(flat, bundle.TargetScalers, lastDate)
	if err != nil {
		return nil, err
	}

	forecast, events := knowledge.Annotate(days)

	return &models.Result{
		Metadata: models.Metadata{
			Model:       m.Name(),
			HorizonDays: models.Horizon,
			GeneratedAt: r.clock.Now().UTC().Format(time.RFC3339),
		},
		Forecast: forecast,
		Events:   events,
	}, nil
}

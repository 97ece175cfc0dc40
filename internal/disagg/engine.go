package disagg

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"disagg/internal/bins"
	"disagg/internal/hazard"
)

// Config is the engine configuration shared by every run.
type Config struct {
	Grid bins.Grid

	// MaxDistance drops sources whose minimum distance to the site exceeds
	// it, in km.
	MaxDistance float64

	// MagDistFilter, when set, drops ruptures smaller than the threshold
	// magnitude at their source's minimum distance.
	MagDistFilter hazard.MagDistFilter

	// NumSourcesToShow is the length of the source ranking. Zero disables
	// per-source tracking.
	NumSourcesToShow int
	ShowDistances    bool
}

// Request is the input of one run.
type Request struct {
	IML  float64
	Site hazard.Site

	// Model is used for every source without a regional match.
	Model hazard.GroundMotionModel

	// RegionModels maps a tectonic region to the model used for sources
	// implementing hazard.Regional in that region.
	RegionModels map[string]hazard.GroundMotionModel

	Forecast hazard.Forecast
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTracer sets the tracer. The default comes from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// Engine runs disaggregations. Counters and state may be read from any
// goroutine while a run is in progress.
type Engine struct {
	cfg    Config
	log    *zap.Logger
	tracer trace.Tracer

	mu        sync.Mutex
	processed atomic.Int64
	total     atomic.Int64
	state     atomic.Int32
	exhausted atomic.Bool // last run walked every rupture and found no exceedance
}

// New validates cfg and returns an idle engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	switch {
	case cfg.Grid.Mag.Len() == 0:
		return nil, &ConfigError{Field: "grid", Reason: "magnitude axis has no bins"}
	case cfg.Grid.Dist.Len() == 0:
		return nil, &ConfigError{Field: "grid", Reason: "distance axis has no bins"}
	case math.IsNaN(cfg.MaxDistance) || cfg.MaxDistance < 0:
		return nil, &ConfigError{Field: "max distance", Reason: "must be a non-negative number of km"}
	case cfg.NumSourcesToShow < 0:
		return nil, &ConfigError{Field: "number of sources", Reason: "must not be negative"}
	}
	e := &Engine{
		cfg:    cfg,
		log:    zap.NewNop(),
		tracer: otel.Tracer("disagg"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

func (r Request) validate() error {
	switch {
	case math.IsNaN(r.IML) || math.IsInf(r.IML, 0):
		return &ConfigError{Field: "intensity level", Reason: "must be finite"}
	case r.Model == nil:
		return &ConfigError{Field: "model", Reason: "no ground-motion model"}
	case r.Forecast == nil:
		return &ConfigError{Field: "forecast", Reason: "no forecast"}
	}
	for region, m := range r.RegionModels {
		if m == nil {
			return &ConfigError{Field: "region models", Reason: "nil model for region " + region}
		}
	}
	return nil
}

// Disaggregate runs one disaggregation. It returns ErrBusy if another call
// is in progress, ErrNoExceedance if no rupture exceeds req.IML, and a
// *CollaboratorError if the forecast or model fails. A canceled ctx stops
// the run between sources and yields ctx.Err(); no partial result is ever
// returned.
func (e *Engine) Disaggregate(ctx context.Context, req Request) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrBusy
	}
	defer e.mu.Unlock()

	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "disagg.Disaggregate", trace.WithAttributes(
		attribute.Float64("disagg.iml", req.IML),
		attribute.String("disagg.site", req.Site.Name),
	))
	defer span.End()

	e.processed.Store(0)
	e.total.Store(0)
	e.exhausted.Store(false)
	e.state.Store(int32(StateRunning))

	res, err := e.run(ctx, req)
	if err != nil {
		e.exhausted.Store(errors.Is(err, ErrNoExceedance))
		e.state.Store(int32(StateFailed))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	e.state.Store(int32(StateDone))
	span.SetAttributes(
		attribute.Int64("disagg.ruptures", e.total.Load()),
		attribute.Float64("disagg.total_rate", res.TotalRate),
	)
	return res, nil
}

func (e *Engine) run(ctx context.Context, req Request) (*Result, error) {
	log := e.log.With(zap.Float64("iml", req.IML), zap.String("site", req.Site.Name))

	if err := e.prepareModels(req); err != nil {
		return nil, err
	}

	sources := make([]hazard.Source, req.Forecast.NumSources())
	var total int64
	for i := range sources {
		src, err := req.Forecast.Source(i)
		if err != nil {
			return nil, &CollaboratorError{Op: "load source", Source: i, Rupture: -1, Err: err}
		}
		sources[i] = src
		total += int64(src.NumRuptures())
	}
	e.total.Store(total)
	log.Info("disaggregation started", zap.Int("sources", len(sources)), zap.Int64("ruptures", total))

	agg := NewAggregator(e.cfg.Grid, e.cfg.NumSourcesToShow > 0)
	var skipped, outside int
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			log.Info("disaggregation canceled", zap.Int64("processed", e.processed.Load()))
			return nil, err
		}

		n := src.NumRuptures()
		dist := src.MinDistance(req.Site)
		if dist > e.cfg.MaxDistance {
			log.Debug("source beyond max distance",
				zap.Int("source", i), zap.String("name", src.Name()), zap.Float64("distance", dist))
			skipped++
			e.processed.Add(int64(n))
			continue
		}

		threshold := math.Inf(-1)
		if e.cfg.MagDistFilter != nil {
			threshold = e.cfg.MagDistFilter.ThresholdMagnitude(dist)
		}
		model := modelFor(req, src)

		for j := 0; j < n; j++ {
			rup, err := src.Rupture(j)
			if err != nil {
				return nil, &CollaboratorError{Op: "load rupture", Source: i, Rupture: j, Err: err}
			}
			if rup.Mag < threshold {
				agg.Reject()
				e.processed.Add(1)
				continue
			}
			s, err := Evaluate(model, req.Site, rup)
			if err != nil {
				return nil, &CollaboratorError{Op: "evaluate rupture", Source: i, Rupture: j, Err: err}
			}
			in, err := agg.Accumulate(s)
			if err != nil {
				return nil, &CollaboratorError{Op: "accumulate rupture", Source: i, Rupture: j, Err: err}
			}
			if !in && s.Rate > 0 {
				outside++
				log.Debug("rupture outside bins",
					zap.Int("source", i), zap.Int("rupture", j),
					zap.Float64("mag", s.Mag), zap.Float64("dist", s.Dist))
			}
			e.processed.Add(1)
		}
		agg.EndSource(i, src)
	}

	res, err := agg.Finalize()
	if err != nil {
		if errors.Is(err, ErrNoExceedance) {
			log.Info("intensity level never exceeded", zap.Int("skipped_sources", skipped))
		}
		return nil, err
	}
	res.IML = req.IML
	res.Site = req.Site.Name

	if e.cfg.NumSourcesToShow > 0 {
		ranked, err := RankSources(res, req.Site, e.cfg.NumSourcesToShow, e.cfg.ShowDistances)
		if err != nil {
			return nil, &CollaboratorError{Op: "rank sources", Source: -1, Rupture: -1, Err: err}
		}
		res.Ranked = ranked
	}

	if res.RejectedRuptures > 0 {
		log.Info("ruptures rejected by magnitude-distance filter", zap.Int("count", res.RejectedRuptures))
	}
	log.Info("disaggregation finished",
		zap.Float64("total_rate", res.TotalRate),
		zap.Float64("mean_mag", res.MeanMag),
		zap.Float64("mean_dist", res.MeanDist),
		zap.Float64("mean_epsilon", res.MeanEpsilon),
		zap.Int("skipped_sources", skipped),
		zap.Int("outside_ruptures", outside))
	return res, nil
}

// prepareModels hands the intensity level, site and maximum distance to
// every model the run may use. Region models are visited in sorted order so
// failures are reported the same way each time.
func (e *Engine) prepareModels(req Request) error {
	regions := make([]string, 0, len(req.RegionModels))
	for r := range req.RegionModels {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	models := []hazard.GroundMotionModel{req.Model}
	for _, r := range regions {
		models = append(models, req.RegionModels[r])
	}
	for _, m := range models {
		if lim, ok := m.(hazard.DistanceLimiter); ok {
			lim.SetMaxDistance(e.cfg.MaxDistance)
		}
		if err := m.SetIntensityLevel(req.IML); err != nil {
			return &CollaboratorError{Op: "set intensity level", Source: -1, Rupture: -1, Err: err}
		}
		if err := m.SetSite(req.Site); err != nil {
			return &CollaboratorError{Op: "set site", Source: -1, Rupture: -1, Err: err}
		}
	}
	return nil
}

func modelFor(req Request, src hazard.Source) hazard.GroundMotionModel {
	if r, ok := src.(hazard.Regional); ok {
		if m, ok := req.RegionModels[r.TectonicRegion()]; ok {
			return m
		}
	}
	return req.Model
}

package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/skommel/mindweave/pkg/builder"
	"github.com/skommel/mindweave/pkg/cache"
	"github.com/skommel/mindweave/pkg/errors"
	"github.com/skommel/mindweave/pkg/export"
	"github.com/skommel/mindweave/pkg/layout"
	"github.com/skommel/mindweave/pkg/mindmap"
	"github.com/skommel/mindweave/pkg/observability"
	"github.com/skommel/mindweave/pkg/validate"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → layout → validate → export pipeline
// and assembles the resulting document.
func (r *Runner) Execute(ctx context.Context, payload []byte, opts Options) (*Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	doc := &Document{ID: uuid.NewString()}

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(payload))
	m, buildHit, err := r.BuildWithCacheInfo(ctx, payload, opts)
	doc.Stats.BuildTime = time.Since(buildStart)
	observability.Pipeline().OnBuildComplete(ctx, safeNodeCount(m), doc.Stats.BuildTime, err)
	if err != nil {
		return nil, err
	}
	doc.Stats.NodeCount = m.NodeCount()
	doc.Stats.EdgeCount = m.EdgeCount()
	doc.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built map",
		"nodes", m.NodeCount(),
		"edges", m.EdgeCount(),
		"duration", doc.Stats.BuildTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Strategy, m.NodeCount())
	m, layoutHit, err := r.LayoutWithCacheInfo(ctx, m, opts)
	doc.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayoutComplete(ctx, opts.Strategy, doc.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	doc.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"strategy", opts.Strategy,
		"duration", doc.Stats.LayoutTime)

	// Stage 3: Validate. Never cached - it is cheap and pure, and skipping
	// it on cache hits would hide regressions in the scoring itself.
	validateStart := time.Now()
	verdict := validate.CheckCollection(m)
	doc.Stats.ValidateTime = time.Since(validateStart)
	observability.Pipeline().OnValidateComplete(ctx, verdict.Overall, verdict.Valid, doc.Stats.ValidateTime)

	r.Logger.Info("validated structure",
		"score", verdict.Overall,
		"valid", verdict.Valid,
		"issues", len(verdict.Structure.Issues))

	// Stage 4: Export
	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	formats, exportHit, err := r.ExportWithCacheInfo(ctx, m, opts)
	doc.Stats.ExportTime = time.Since(exportStart)
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, doc.Stats.ExportTime, err)
	if err != nil {
		return nil, err
	}
	doc.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported notations",
		"formats", opts.Formats,
		"duration", doc.Stats.ExportTime)

	// Assemble the document.
	snapshot := mindmap.Snapshot(m)
	doc.Nodes = snapshot.Nodes
	doc.Edges = snapshot.Edges
	doc.Metadata = snapshot.Metadata
	doc.Statistics = mindmap.ComputeStatistics(m)
	doc.Validation = verdict
	doc.ExportFormats = formats
	doc.Layout = LayoutInfo{
		Type:   opts.Strategy,
		Width:  opts.Width,
		Height: opts.Height,
		Scheme: opts.ColorScheme,
		Focus:  opts.FocusAreas,
	}
	return doc, nil
}

// ExecuteFallback runs the pipeline stages against the deterministic
// fallback map built from a topic and key points, bypassing the payload
// boundary and the build cache. Used when the upstream concept source fails.
func (r *Runner) ExecuteFallback(ctx context.Context, topic string, keyPoints []string, opts Options) (*Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	m, err := builder.BuildFallback(topic, keyPoints)
	if err != nil {
		return nil, err
	}
	r.Logger.Warn("using fallback map", "topic", topic, "points", len(keyPoints))

	return r.finishFromMap(ctx, m, opts)
}

// finishFromMap runs layout, validation, and export on an already-built map.
func (r *Runner) finishFromMap(ctx context.Context, m *mindmap.Map, opts Options) (*Document, error) {
	doc := &Document{ID: uuid.NewString()}
	doc.Stats.NodeCount = m.NodeCount()
	doc.Stats.EdgeCount = m.EdgeCount()

	layoutStart := time.Now()
	m, layoutHit, err := r.LayoutWithCacheInfo(ctx, m, opts)
	doc.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		return nil, err
	}
	doc.CacheInfo.LayoutHit = layoutHit

	validateStart := time.Now()
	verdict := validate.CheckCollection(m)
	doc.Stats.ValidateTime = time.Since(validateStart)

	exportStart := time.Now()
	formats, exportHit, err := r.ExportWithCacheInfo(ctx, m, opts)
	doc.Stats.ExportTime = time.Since(exportStart)
	if err != nil {
		return nil, err
	}
	doc.CacheInfo.ExportHit = exportHit

	snapshot := mindmap.Snapshot(m)
	doc.Nodes = snapshot.Nodes
	doc.Edges = snapshot.Edges
	doc.Metadata = snapshot.Metadata
	doc.Statistics = mindmap.ComputeStatistics(m)
	doc.Validation = verdict
	doc.ExportFormats = formats
	doc.Layout = LayoutInfo{
		Type:   opts.Strategy,
		Width:  opts.Width,
		Height: opts.Height,
		Scheme: opts.ColorScheme,
		Focus:  opts.FocusAreas,
	}
	return doc, nil
}

// BuildWithCacheInfo builds a map from a raw payload with caching and
// returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, payload []byte, opts Options) (*mindmap.Map, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	payloadHash := cache.Hash(payload)
	cacheKey := r.Keyer.MapKey(payloadHash, opts.MapKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if m, err := mindmap.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "map")
				return m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "map")
	}

	p, err := builder.ParsePayload(payload)
	if err != nil {
		return nil, false, err
	}
	m, err := builder.Build(p, opts.BuilderOptions())
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := mindmap.Marshal(m); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLMap)
			observability.Cache().OnCacheSet(ctx, "map", len(data))
		}
	}
	return m, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, payload []byte, opts Options) (*mindmap.Map, error) {
	m, _, err := r.BuildWithCacheInfo(ctx, payload, opts)
	return m, err
}

// LayoutWithCacheInfo positions a map with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, m *mindmap.Map, opts Options) (*mindmap.Map, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	mapData, err := mindmap.Marshal(m)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize map for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(mapData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := mindmap.Unmarshal(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	if err := layout.Apply(m, opts.Strategy, opts.Canvas()); err != nil {
		return nil, false, err
	}

	if data, err := mindmap.Marshal(m); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return m, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, m *mindmap.Map, opts Options) (*mindmap.Map, error) {
	positioned, _, err := r.LayoutWithCacheInfo(ctx, m, opts)
	return positioned, err
}

// ExportWithCacheInfo renders the requested notations with per-format
// caching and returns whether every notation came from cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, m *mindmap.Map, opts Options) (export.Formats, bool, error) {
	if err := opts.ValidateForExport(); err != nil {
		return export.Formats{}, false, err
	}
	r.applyLogger(&opts)

	mapData, err := mindmap.Marshal(m)
	if err != nil {
		return export.Formats{}, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize map for cache key")
	}
	mapHash := cache.Hash(mapData)

	// Try to get all requested formats from cache
	var formats export.Formats
	allCached := true
	for _, f := range opts.Formats {
		cacheKey := r.Keyer.ExportKey(mapHash, opts.ExportKeyOpts(f))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			allCached = false
			break
		}
		setFormat(&formats, f, string(data))
	}
	if allCached {
		observability.Cache().OnCacheHit(ctx, "export")
		return formats, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "export")

	// Render every format and cache the requested ones
	rendered, err := export.Export(m)
	if err != nil {
		return export.Formats{}, false, err
	}
	formats = export.Formats{}
	for _, f := range opts.Formats {
		out := getFormat(rendered, f)
		setFormat(&formats, f, out)
		cacheKey := r.Keyer.ExportKey(mapHash, opts.ExportKeyOpts(f))
		_ = r.Cache.Set(ctx, cacheKey, []byte(out), cache.TTLExport)
		observability.Cache().OnCacheSet(ctx, "export", len(out))
	}
	return formats, false, nil
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Export(ctx context.Context, m *mindmap.Map, opts Options) (export.Formats, error) {
	formats, _, err := r.ExportWithCacheInfo(ctx, m, opts)
	return formats, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func setFormat(f *export.Formats, name, value string) {
	switch export.Format(name) {
	case export.FormatJSON:
		f.JSON = value
	case export.FormatFlow:
		f.FlowNotation = value
	case export.FormatGraph:
		f.GraphNotation = value
	}
}

func getFormat(f export.Formats, name string) string {
	switch export.Format(name) {
	case export.FormatJSON:
		return f.JSON
	case export.FormatFlow:
		return f.FlowNotation
	case export.FormatGraph:
		return f.GraphNotation
	}
	return ""
}

func safeNodeCount(m *mindmap.Map) int {
	if m == nil {
		return 0
	}
	return m.NodeCount()
}

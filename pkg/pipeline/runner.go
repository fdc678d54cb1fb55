package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/observability"
	"github.com/matzehuels/boreholelog/pkg/render/sink"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

// Runner executes the pipeline with caching.
//
// A Runner keeps no per-run state apart from its font cache, so one Runner
// may serve concurrent requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Fonts  *sink.Fonts

	renderPage func(*layout.Page, string, RenderOptions) ([]byte, error)
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default one.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, Fonts: sink.NewFonts(), renderPage: RenderPage}
}

// Execute runs ingest → layout → render.
//
// Page failures are collected in Result.PageErrors; Execute only returns an
// error when no page could be produced, when the input is unusable, or when
// ctx is cancelled. On cancellation the partial result is returned along
// with ctx.Err().
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	res := &Result{ID: uuid.NewString()}
	logger := opts.Logger.With("run", res.ID[:8])

	// Stage 1: Ingest
	start := time.Now()
	doc, err := Ingest(ctx, opts)
	if err != nil {
		return nil, err
	}
	b := doc.Borehole
	res.Borehole = b
	res.Header = doc.Header
	res.Stats.IngestTime = time.Since(start)
	res.Stats.Intervals = len(b.Intervals)
	res.Stats.MaxDepth = b.MaxDepth()
	logger.Debug("ingested borehole", "id", b.ID, "intervals", len(b.Intervals), "duration", res.Stats.IngestTime)

	// Stage 2: Layout
	cfg, err := ResolveStyle(opts)
	if err != nil {
		return nil, err
	}
	res.Style = cfg
	legend, err := ResolveLegend(opts)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cfg, legend, r.Fonts)
	if err != nil {
		return nil, err
	}
	specs, err := engine.Plan(b)
	if err != nil {
		return nil, err
	}
	res.PageCount = len(specs)
	for _, p := range opts.Pages {
		if p > len(specs) {
			return nil, errors.New(errors.ErrCodeNotFound, "page %d requested but borehole %s has %d pages", p, b.ID, len(specs))
		}
	}
	observability.Pipeline().OnLayoutStart(ctx, b.ID, len(specs))

	keys, err := newRunKeys(doc.Borehole, doc.Header, cfg, legend, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash inputs")
	}
	ro := RenderOptions{
		Fonts:    r.Fonts,
		Family:   cfg.Fonts.Family,
		DPI:      keys.dpi,
		Borehole: b.ID,
		Preset:   cfg.Name,
		RunID:    res.ID,
	}

	// Stages 2+3 per page: each page is laid out and written before the
	// next one starts.
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	produced := 0
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !opts.WantPage(spec.Number) {
			continue
		}
		pageStart := time.Now()
		page, err := r.buildPage(engine, doc.Borehole, doc.Header, spec, len(specs))
		res.Stats.LayoutTime += time.Since(pageStart)
		if err != nil {
			res.PageErrors = append(res.PageErrors, &errors.PageError{Page: spec.Number, Err: err})
			observability.Pipeline().OnPageComplete(ctx, b.ID, spec.Number, time.Since(pageStart), err)
			logger.Warn("page failed", "page", spec.Number, "err", err)
			continue
		}
		res.Pages = append(res.Pages, page)

		var pageErr error
		for _, format := range opts.Formats {
			if !PerPage(format) {
				continue
			}
			key := r.Keyer.PageKey(keys.input, spec.Number, keys.opts(format))
			data, hit, err := r.cached(ctx, key, "page", opts.Refresh, func() ([]byte, error) {
				return r.renderPage(page, format, ro)
			}, &res.CacheInfo)
			if err != nil {
				pageErr = errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
				break
			}
			res.Artifacts = append(res.Artifacts, Artifact{Format: format, Page: spec.Number, Data: data, Cached: hit})
		}
		if pageErr != nil {
			res.PageErrors = append(res.PageErrors, &errors.PageError{Page: spec.Number, Err: pageErr})
			logger.Warn("page failed", "page", spec.Number, "err", pageErr)
		} else {
			produced++
		}
		observability.Pipeline().OnPageComplete(ctx, b.ID, spec.Number, time.Since(pageStart), pageErr)
	}

	if produced == 0 && len(res.PageErrors) > 0 {
		err := errors.PagesFailed(res.PageErrors, len(res.PageErrors))
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
		return res, err
	}

	// Whole-document formats.
	for _, format := range opts.Formats {
		if PerPage(format) {
			continue
		}
		render := func() ([]byte, error) { return RenderDocument(res.Pages, format, ro) }
		var (
			data []byte
			hit  bool
		)
		if format == FormatJSON {
			// The JSON dump carries the run ID and is never served from cache.
			data, err = render()
		} else {
			key := r.Keyer.ArtifactKey(keys.document(res.Pages), keys.opts(format))
			data, hit, err = r.cached(ctx, key, "artifact", opts.Refresh, render, &res.CacheInfo)
		}
		if err != nil {
			err = errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
			return res, err
		}
		res.Artifacts = append(res.Artifacts, Artifact{Format: format, Data: data, Cached: hit})
	}
	res.Stats.Pages = len(res.Pages)
	res.Stats.RenderTime = time.Since(renderStart) - res.Stats.LayoutTime
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), nil)

	logger.Info("rendered log",
		"borehole", b.ID,
		"pages", fmt.Sprintf("%d/%d", len(res.Pages), len(specs)),
		"formats", opts.Formats,
		"cache_hits", res.CacheInfo.Hits,
		"duration", time.Since(start))
	return res, nil
}

// Layout ingests and lays out every page without rendering.
func (r *Runner) Layout(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForIngest(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	doc, err := Ingest(ctx, opts)
	if err != nil {
		return nil, err
	}
	cfg, err := ResolveStyle(opts)
	if err != nil {
		return nil, err
	}
	legend, err := ResolveLegend(opts)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cfg, legend, r.Fonts)
	if err != nil {
		return nil, err
	}
	specs, err := engine.Plan(doc.Borehole)
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:        uuid.NewString(),
		Borehole:  doc.Borehole,
		Header:    doc.Header,
		Style:     cfg,
		PageCount: len(specs),
	}
	start := time.Now()
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		page, err := r.buildPage(engine, doc.Borehole, doc.Header, spec, len(specs))
		if err != nil {
			res.PageErrors = append(res.PageErrors, &errors.PageError{Page: spec.Number, Err: err})
			continue
		}
		res.Pages = append(res.Pages, page)
	}
	res.Stats = Stats{
		Intervals:  len(doc.Borehole.Intervals),
		Pages:      len(res.Pages),
		MaxDepth:   doc.Borehole.MaxDepth(),
		LayoutTime: time.Since(start),
	}
	return res, nil
}

// RenderPage renders a single page in a per-page format.
func (r *Runner) RenderPage(ctx context.Context, opts Options, page int, format string) (Artifact, error) {
	if !PerPage(format) {
		return Artifact{}, errors.New(errors.ErrCodeInvalidFormat, "single pages are rendered as png or svg, not %q", format)
	}
	opts.Pages = []int{page}
	opts.Formats = []string{format}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return Artifact{}, err
	}
	if len(res.PageErrors) > 0 {
		return Artifact{}, res.PageErrors[0]
	}
	arts := res.ArtifactsFor(format)
	if len(arts) == 0 {
		return Artifact{}, errors.New(errors.ErrCodeInternal, "page %d produced no output", page)
	}
	return arts[0], nil
}

func (r *Runner) buildPage(e *layout.Engine, b *strata.Borehole, meta header.Metadata, spec layout.PageSpec, count int) (*layout.Page, error) {
	pc, err := e.NewPageContext(b, meta, spec, count)
	if err != nil {
		return nil, err
	}
	return e.BuildPage(pc)
}

// cached returns the entry for key, or renders, stores and returns it.
// Cache failures are logged and otherwise ignored.
func (r *Runner) cached(ctx context.Context, key, keyType string, refresh bool, render func() ([]byte, error), info *CacheInfo) ([]byte, bool, error) {
	hooks := observability.Cache()
	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Debug("cache get failed", "err", err)
		}
		if err == nil && hit {
			info.Hits++
			hooks.OnCacheHit(ctx, keyType)
			return data, true, nil
		}
	}
	info.Misses++
	hooks.OnCacheMiss(ctx, keyType)
	data, err := render()
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Debug("cache set failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// runKeys holds the content hashes that address one run's artifacts.
type runKeys struct {
	input  string
	style  string
	legend string
	dpi    float64
}

func newRunKeys(b *strata.Borehole, meta header.Metadata, cfg layout.Config, legend layout.Legend, opts Options) (runKeys, error) {
	input, err := cache.HashJSON(struct {
		Borehole *strata.Borehole `json:"borehole"`
		Header   header.Metadata  `json:"header"`
	}{b, meta})
	if err != nil {
		return runKeys{}, err
	}
	style, err := cache.HashJSON(cfg)
	if err != nil {
		return runKeys{}, err
	}
	k := runKeys{input: input, style: style, dpi: opts.DPI}
	if len(legend) > 0 {
		if k.legend, err = cache.HashJSON(legend); err != nil {
			return runKeys{}, err
		}
	}
	if k.dpi <= 0 {
		k.dpi = cfg.Page.DPI
	}
	return k, nil
}

func (k runKeys) opts(format string) cache.ArtifactKeyOpts {
	o := cache.ArtifactKeyOpts{Format: format, Style: k.style, Legend: k.legend}
	if format == FormatPNG {
		o.DPI = k.dpi
	}
	return o
}

// document addresses a whole-document artifact built from pages.
func (k runKeys) document(pages []*layout.Page) string {
	nums := make([]int, len(pages))
	for i, p := range pages {
		nums[i] = p.Spec.Number
	}
	return cache.Hash([]byte(fmt.Sprint(k.input, nums)))
}

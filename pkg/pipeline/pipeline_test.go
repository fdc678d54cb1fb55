package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/boreholelog/pkg/cache"
	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/header"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/strata"
)

func scenario() *strata.Borehole {
	return &strata.Borehole{ID: "BH01", GroundLevel: 62.5, Intervals: []strata.Interval{
		{Top: 0, Base: 0.3, Code: "101", Description: "TOPSOIL"},
		{Top: 0.3, Base: 1.2, Code: "201", Description: "Firm brown CLAY"},
		{Top: 1.2, Base: 3.5, Code: "202", Description: "Stiff grey CLAY"},
		{Top: 3.5, Base: 7, Code: "301", Description: "Dense SAND"},
		{Top: 7, Base: 10, Code: "401", Description: "Weathered SILTSTONE"},
		{Top: 10, Base: 15, Code: "801", Description: "MUDSTONE"},
	}}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"pdf", false},
		{"json", false},
		{"docx", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidatePreset(t *testing.T) {
	for name, wantErr := range map[string]bool{"": false, "openground": false, "compact": false, "fancy": true} {
		if err := ValidatePreset(name); (err != nil) != wantErr {
			t.Errorf("ValidatePreset(%q) = %v, wantErr %v", name, err, wantErr)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad id", Options{Input: "x.ags", ID: "../x"}, errors.ErrCodeInvalidID},
		{"bad format", Options{Input: "x.ags", Formats: []string{"tiff"}}, errors.ErrCodeInvalidFormat},
		{"bad preset", Options{Input: "x.ags", Preset: "fancy"}, errors.ErrCodeInvalidConfig},
		{"negative span", Options{Input: "x.ags", PageSpan: -1}, errors.ErrCodeInvalidConfig},
		{"dpi too high", Options{Input: "x.ags", DPI: layout.MaxDPI + 1}, errors.ErrCodeInvalidConfig},
		{"page zero", Options{Input: "x.ags", Pages: []int{0}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Borehole: scenario(), Formats: []string{"svg", "png", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 2 {
		t.Errorf("Formats not deduplicated: %v", opts.Formats)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}

	empty := Options{}
	empty.SetRenderDefaults()
	if len(empty.Formats) != 1 || empty.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", empty.Formats, DefaultFormat)
	}
	if !empty.WantPage(7) {
		t.Error("no page filter should select every page")
	}
	empty.Pages = []int{2}
	if empty.WantPage(1) || !empty.WantPage(2) {
		t.Error("page filter not applied")
	}
}

func TestArtifactFileName(t *testing.T) {
	if got := (Artifact{Format: "png", Page: 2}).FileName("BH01"); got != "BH01_page2.png" {
		t.Errorf("FileName = %s", got)
	}
	if got := (Artifact{Format: "pdf"}).FileName("out/BH01"); got != "out/BH01.pdf" {
		t.Errorf("FileName = %s", got)
	}
}

func TestIngestMergesHeader(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "bh.json")
	hdr := filepath.Join(dir, "header.yaml")
	json := `{"id":"BH05","ground_level":10,"intervals":[{"top":0,"base":1.5,"code":"101"}],` +
		`"header":{"project_name":"From JSON","client":"Json Client"}}`
	if err := os.WriteFile(doc, []byte(json), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(hdr, []byte("client: Yaml Client\nlogged_by: CD\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Ingest(context.Background(), Options{
		Input:      doc,
		HeaderPath: hdr,
		Header:     header.Metadata{LoggedBy: "EF"},
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	want := header.Metadata{ProjectName: "From JSON", Client: "Yaml Client", LoggedBy: "EF"}
	if got.Header != want {
		t.Errorf("Header = %+v, want %+v", got.Header, want)
	}
	if got.Borehole.ID != "BH05" {
		t.Errorf("ID = %s", got.Borehole.ID)
	}

	if _, err := Ingest(context.Background(), Options{Input: doc, ID: "BH06"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Ingest(wrong id) = %v", err)
	}
}

func TestIngestDoesNotMutateInput(t *testing.T) {
	b := &strata.Borehole{ID: "BH01", Intervals: []strata.Interval{
		{Top: 1, Base: 2, Description: "b  two"},
		{Top: 0, Base: 1, Description: "a"},
	}}
	doc, err := Ingest(context.Background(), Options{Borehole: b})
	if err != nil {
		t.Fatal(err)
	}
	if b.Intervals[0].Top != 1 || b.Intervals[0].Description != "b  two" {
		t.Errorf("caller borehole changed: %+v", b.Intervals)
	}
	if doc.Borehole.Intervals[0].Top != 0 {
		t.Errorf("ingested borehole not sorted: %+v", doc.Borehole.Intervals)
	}
}

func TestResolveStyle(t *testing.T) {
	cfg, err := ResolveStyle(Options{Preset: "compact", PageSpan: 5})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "compact" || cfg.PageSpan != 5 {
		t.Errorf("style = %s span %v", cfg.Name, cfg.PageSpan)
	}

	path := filepath.Join(t.TempDir(), "style.toml")
	if err := os.WriteFile(path, []byte("page_span = 20.0\n[fonts]\nbody = 9.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = ResolveStyle(Options{StylePath: path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PageSpan != 20 || cfg.Fonts.Body != 9 {
		t.Errorf("style file not applied: span %v body %v", cfg.PageSpan, cfg.Fonts.Body)
	}

	if _, err := ResolveStyle(Options{StylePath: filepath.Join(t.TempDir(), "none.toml")}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing style = %v", err)
	}
}

func TestResolveLegend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legend.csv")
	if err := os.WriteFile(path, []byte("101,#8b4513\n201,#a0522d,/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := ResolveLegend(Options{
		LegendPath: path,
		Legend:     layout.Legend{"201": {Fill: "#000000"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if l["101"].Fill != "#8b4513" || l["201"].Fill != "#000000" {
		t.Errorf("legend = %+v", l)
	}
	if _, err := ResolveLegend(Options{Legend: layout.Legend{"1": {Hatch: "o"}}}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad hatch = %v", err)
	}
}

// countingCache wraps a cache and counts hits.
type countingCache struct {
	cache.Cache
	mu   sync.Mutex
	hits int
	sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	c.mu.Lock()
	if hit {
		c.hits++
	}
	c.mu.Unlock()
	return data, hit, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}
	r := NewRunner(cc, nil, nil)
	ctx := context.Background()
	opts := Options{Borehole: scenario(), Formats: []string{FormatSVG, FormatJSON}}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ID == "" || res.PageCount != 2 || len(res.Pages) != 2 || res.Failed() {
		t.Fatalf("result: id=%q count=%d pages=%d errs=%v", res.ID, res.PageCount, len(res.Pages), res.PageErrors)
	}
	svgs := res.ArtifactsFor(FormatSVG)
	if len(svgs) != 2 || svgs[0].Page != 1 || svgs[1].Page != 2 {
		t.Fatalf("svg artifacts = %+v", svgs)
	}
	if !bytes.Contains(svgs[0].Data, []byte("<svg")) {
		t.Error("page 1 is not SVG")
	}
	js := res.ArtifactsFor(FormatJSON)
	if len(js) != 1 || js[0].Page != 0 || !strings.Contains(string(js[0].Data), res.ID) {
		t.Errorf("json artifact missing or without run id")
	}
	if res.Stats.Intervals != 6 || res.Stats.MaxDepth != 15 || res.CacheInfo.Hits != 0 || res.CacheInfo.Misses != 2 {
		t.Errorf("stats = %+v cache = %+v", res.Stats, res.CacheInfo)
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.CacheInfo.Hits != 2 || cc.hits != 2 {
		t.Errorf("second run cache hits = %d (cache saw %d), want 2", again.CacheInfo.Hits, cc.hits)
	}
	if again.ID == res.ID {
		t.Error("run IDs should differ")
	}
	if !again.ArtifactsFor(FormatSVG)[0].Cached {
		t.Error("artifact not marked cached")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.Hits != 0 {
		t.Errorf("refresh used the cache")
	}
}

func TestExecutePageSelection(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Borehole: scenario(), Formats: []string{FormatSVG}, Pages: []int{2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pages) != 1 || res.Pages[0].Spec.Number != 2 || res.PageCount != 2 {
		t.Errorf("pages = %d, count = %d", len(res.Pages), res.PageCount)
	}

	_, err = r.Execute(ctx, Options{Borehole: scenario(), Pages: []int{3}})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Execute(page 3) = %v, want NOT_FOUND", err)
	}
}

func TestExecuteNoData(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Borehole: &strata.Borehole{ID: "BH01"}})
	if !errors.Is(err, errors.ErrCodeNoData) {
		t.Errorf("Execute(empty) = %v, want NO_DATA", err)
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, Options{Borehole: scenario(), Formats: []string{FormatSVG}})
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || len(res.Pages) != 0 {
		t.Errorf("cancelled run should return an empty partial result")
	}
}

func TestRunnerLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Layout(context.Background(), Options{Borehole: scenario(), Preset: "compact"})
	if err != nil {
		t.Fatal(err)
	}
	if res.PageCount != 1 || len(res.Pages) != 1 || len(res.Artifacts) != 0 {
		t.Errorf("compact layout: count=%d pages=%d artifacts=%d", res.PageCount, len(res.Pages), len(res.Artifacts))
	}
	if got := len(res.Pages[0].Segments); got != 6 {
		t.Errorf("segments = %d, want 6", got)
	}
}

func TestRunnerRenderPage(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	a, err := r.RenderPage(ctx, Options{Borehole: scenario()}, 2, FormatSVG)
	if err != nil {
		t.Fatal(err)
	}
	if a.Page != 2 || !bytes.Contains(a.Data, []byte("<svg")) {
		t.Errorf("artifact = page %d, %d bytes", a.Page, len(a.Data))
	}
	if _, err := r.RenderPage(ctx, Options{Borehole: scenario()}, 1, FormatPDF); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("RenderPage(pdf) = %v", err)
	}
}

func TestExecutePageFailure(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	r.renderPage = func(p *layout.Page, format string, opts RenderOptions) ([]byte, error) {
		if p.Spec.Number == 1 {
			return nil, errors.New(errors.ErrCodeRenderFailed, "canvas write failed")
		}
		return RenderPage(p, format, opts)
	}
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{Borehole: scenario(), Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("one bad page should not fail the run: %v", err)
	}
	if len(res.PageErrors) != 1 || res.PageErrors[0].Page != 1 {
		t.Fatalf("page errors = %v", res.PageErrors)
	}
	if arts := res.ArtifactsFor(FormatSVG); len(arts) != 1 || arts[0].Page != 2 {
		t.Errorf("artifacts = %+v, want page 2 only", arts)
	}

	r.renderPage = func(*layout.Page, string, RenderOptions) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeRenderFailed, "disk full")
	}
	res, err = r.Execute(ctx, Options{Borehole: scenario(), Formats: []string{FormatSVG}})
	if !errors.Is(err, errors.ErrCodeRenderFailed) || res == nil || len(res.PageErrors) != 2 {
		t.Errorf("all pages failing = %v, want RENDER_FAILED with both page errors", err)
	}
}

// Package sink writes laid-out log pages to files.
//
// PNG, SVG and PDF go through [Surface], a render.Backend on top of
// github.com/tdewolff/canvas. PNG and SVG hold one page each; PDF holds the
// whole log. [RenderJSON] dumps the primitives of a page without drawing
// them, for debugging layouts and feeding other tools.
//
// Text uses the configured system font family when it is installed and the
// embedded Go fonts otherwise. Share one [Fonts] across calls with
// [WithFonts] to avoid reloading font files for every page.
package sink

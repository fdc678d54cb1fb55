// Package layout computes the pages of a borehole log.
//
// # Overview
//
// A log is a sequence of A4 pages, each showing a fixed depth span (10m by
// default). The layout engine takes a validated [strata.Borehole] and a
// [Config] style and produces, per page, an ordered list of drawing
// primitives ([Rect], [Line], [Text]) in normalized region coordinates. A
// backend in package render replays them onto a canvas.
//
// # Pipeline
//
// For every page the engine:
//
//  1. Selects the intervals overlapping the page and clips them to it
//     ([Clip]), recording which edges are true layer boundaries and which
//     were cut by the page break.
//  2. Maps depths to y with a per-page [Mapper].
//  3. Draws lithology bars in the legend column, clipped at the end of the
//     borehole, with the code and wrapped description centred on the
//     visible part of the bar.
//  4. Draws depth and level labels at true boundaries only, according to
//     the style's [LabelPolicy].
//  5. Draws dividers between consecutive segments, the closing line, and the
//     depth ruler ([Ticks]).
//
// # Columns
//
// Columns are addressed by [Role] (LegendColumn, Description, Ruler, ...) rather
// than by position. The same [Columns] geometry lays out the header's
// column-title row and every page body.
//
// # Styles
//
// Styles are presets of one [Config] struct ("openground", "compact") that
// can be overridden from TOML with [LoadConfig].
package layout

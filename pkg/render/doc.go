// Package render draws line graph content onto a widget's surfaces.
//
// # Overview
//
// A [Pipeline] executes the two-phase draw decided by a [layers.Plan]:
//
//   - Cache phase: grid lines are drawn on the grid surface (reset from the
//     background first), then the cache surface is rebuilt from the grid and
//     receives slow-changing graphs, moving rows and dots.
//   - Realtime phase: the realtime surface is seeded from the cache and
//     receives the fast-changing content of every category.
//
// Categories are always processed in the order grid, graph, moving, dot.
// Before every element query the style is reset to the [Theme] default for
// that category, so a source can never leak colours into the next element.
//
// # Fading
//
// The cache is copied onto the realtime surface with full opacity when the
// cache is forced or [Pipeline.Fade] is at least 1. Otherwise the copy uses
// alpha fade*0.35+0.05, leaving a trail of earlier realtime frames.
//
// # Background
//
// [Pipeline.PaintBackground] paints the static decoration (frame, screen
// gradient, shadows, light spots) once per surface allocation and seeds the
// grid, cache and realtime surfaces with it.
package render

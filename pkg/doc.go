// Package pkg holds the libraries behind the linegraph widget.
//
// # Overview
//
// A line graph widget draws grids, graphs, scrolling bands and dots from a
// data source, with draggable handles and a crosshair on top. Redraws are
// incremental: only the layers a source marks as changed are redrawn, and
// static content is kept on offscreen surfaces between frames.
//
// The packages fall into three groups:
//
//  1. Widget core: [linegraph], [layers], [surface], [render], [coord],
//     [handles], [crosshair] and [source]
//  2. Hosts: [host] plays scripted sessions, [session] keeps live widgets
//     for the HTTP host
//  3. Infrastructure: [config], [pipeline], [cache], [trace],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// One frame flows through the widget like this:
//
//	host event / tick
//	       ↓
//	[linegraph] Widget.RequestRefresh
//	       ↓
//	[layers] Controller (which phase and layer bits are dirty)
//	       ↓
//	[render] Pipeline (background and foreground phases onto [surface] roles)
//	       ↓
//	[handles] + [crosshair] overlay
//	       ↓
//	Widget.Expose (copy to the host frame)
//
// # Quick Start
//
// Play a script headlessly and take its last frame:
//
//	cfg := config.Default()
//	cfg.SetDefaults()
//
//	player, _, _ := pipeline.Build(cfg)
//	script, _ := host.LoadScript("drag.toml")
//	script.SetDefaults(cfg.Graph.Width, cfg.Graph.Height)
//	frame, _ := player.Last(script)
//
// Export every frame with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Export(ctx, pipeline.Options{Config: cfg, Script: script})
//
// # Testing
//
//	go test ./pkg/...
//	go test ./pkg/linegraph/...
//
// [linegraph]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/linegraph
// [layers]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/layers
// [surface]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/surface
// [render]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/render
// [coord]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/coord
// [handles]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/handles
// [crosshair]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/crosshair
// [source]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/source
// [host]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/host
// [session]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/config
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/cache
// [trace]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/trace
// [observability]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/linegraph/pkg/buildinfo
package pkg

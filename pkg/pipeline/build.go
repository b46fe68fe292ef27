package pipeline

import (
	"github.com/matzehuels/linegraph/pkg/config"
	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/source/demo"
)

// Build creates the configured demo source and a player for a widget
// drawing it. The preset handles are placed on the widget and reported to
// the source.
func Build(cfg *config.Config, opts ...linegraph.Option) (*host.Player, *demo.Analyzer, error) {
	src, err := demo.ByName(cfg.Source.Name, demo.Options{
		Seed:      cfg.Source.Seed,
		Direction: cfg.Direction(),
	})
	if err != nil {
		return nil, nil, err
	}
	p := host.NewPlayer(cfg.Widget(), src, opts...)
	if err := cfg.ApplyPresets(p.Widget); err != nil {
		return nil, nil, err
	}
	src.SyncHandles(p.Widget.Handles())
	return p, src, nil
}

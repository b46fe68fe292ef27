package pipeline

import (
	"context"
	"image"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/observability"
)

// Runner executes exports with caching.
//
// The Runner is stateless except for the cache and logger, so several
// goroutines can share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer selects the default keyer and a
// nil cache disables caching.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Result holds the encoded frames of an export.
type Result struct {
	Frames [][]byte
	Cached bool // every frame came from the cache
	Stats  Stats
}

// Stats describes an export.
type Stats struct {
	Draws      int
	PlayTime   time.Duration
	EncodeTime time.Duration
}

const keyType = "frame"

// Export plays the script and returns every encoded frame in order.
func (r *Runner) Export(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	keys := r.frameKeys(&opts)

	if !opts.Refresh {
		if frames, ok := r.cached(ctx, keys); ok {
			r.Logger.Debug("frames served from cache", "frames", len(frames))
			return &Result{Frames: frames, Cached: true}, nil
		}
	}

	result := &Result{Frames: make([][]byte, opts.Script.Frames)}
	player, _, err := Build(opts.Config, linegraph.WithLogger(r.Logger))
	if err != nil {
		return nil, err
	}
	player.Logger = r.Logger

	start := time.Now()
	var encodeTime atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	// identical consecutive frames share one encoding
	var prev *image.RGBA
	prevIndex := -1
	var same [][2]int
	for i, frame := range player.Play(opts.Script) {
		if err := gctx.Err(); err != nil {
			break
		}
		if frame == prev {
			same = append(same, [2]int{i, prevIndex})
			continue
		}
		prev, prevIndex = frame, i
		g.Go(func() error {
			t := time.Now()
			data, err := Encode(frame, opts.Format, opts.Scale, opts.Quality)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "frame %d", i)
			}
			result.Frames[i] = data
			encodeTime.Add(int64(time.Since(t)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := player.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range same {
		result.Frames[s[0]] = result.Frames[s[1]]
	}
	result.Stats = Stats{
		Draws:      player.Host.Draws(),
		PlayTime:   time.Since(start),
		EncodeTime: time.Duration(encodeTime.Load()),
	}

	for i, data := range result.Frames {
		if err := r.Cache.Set(ctx, keys[i], data, cache.FrameTTL); err != nil {
			r.Logger.Warn("cache frame", "frame", i, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	r.Logger.Info("exported frames",
		"frames", len(result.Frames),
		"draws", result.Stats.Draws,
		"duration", result.Stats.PlayTime)
	return result, nil
}

func (r *Runner) frameKeys(opts *Options) []string {
	base := opts.KeyOpts()
	hash := opts.Script.Hash
	if hash == "" {
		hash = encodeHash(opts.Script)
	}
	keys := make([]string, opts.Script.Frames)
	for i := range keys {
		k := base
		k.Frame = i
		keys[i] = r.Keyer.FrameKey(hash, k)
	}
	return keys
}

// cached returns the frames for keys if all of them are cached.
func (r *Runner) cached(ctx context.Context, keys []string) ([][]byte, bool) {
	frames := make([][]byte, len(keys))
	for i, k := range keys {
		data, hit, err := r.Cache.Get(ctx, k)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyType)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, keyType)
		frames[i] = data
	}
	return frames, true
}

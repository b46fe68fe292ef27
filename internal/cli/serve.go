package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/cache"
	"github.com/matzehuels/linegraph/pkg/config"
	"github.com/matzehuels/linegraph/pkg/errors"
	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/observability"
	"github.com/matzehuels/linegraph/pkg/pipeline"
	"github.com/matzehuels/linegraph/pkg/session"
)

const (
	defaultAddr     = "127.0.0.1:8080"
	cleanupInterval = time.Minute
	maxBodyBytes    = 1 << 20
	sessionKeyType  = "session_frame"
)

type serveOpts struct {
	addr  string
	ttl   time.Duration
	limit int
	cache cacheOpts
}

// serveCommand creates the HTTP host.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:  defaultAddr,
		ttl:   session.DefaultTTL,
		limit: session.DefaultMax,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve widget sessions over HTTP",
		Long: `Serve widget sessions over HTTP.

  POST   /sessions                          create a session
  POST   /sessions/{id}/events              deliver pointer and resize events
  POST   /sessions/{id}/tick?n=1            advance the animation
  GET    /sessions/{id}/frame.png           the current frame
  GET    /sessions/{id}/frames/{n}.png      a previously served frame
  GET    /sessions/{id}/handles             the active handles
  DELETE /sessions/{id}                     close a session

Frames carry their session frame number in X-Frame and the widget
generation in X-Generation. Served frames are kept by frame number in the
frame cache (Redis with --redis) for
` + cache.SessionFrameTTL.String() + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().DurationVar(&opts.ttl, "session-ttl", opts.ttl, "idle time before a session expires")
	cmd.Flags().IntVar(&opts.limit, "max-sessions", opts.limit, "maximum number of live sessions")
	cmd.Flags().BoolVar(&opts.cache.noCache, "no-cache", false, "do not keep served frames")
	cmd.Flags().StringVar(&opts.cache.redis, "redis", "", "keep served frames in Redis at this address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	fc, err := c.newCache(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer fc.Close()

	store := session.NewStore(opts.ttl, opts.limit)
	defer store.Close()
	srv := newServer(cfg, store, fc, c.Logger)

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
				return
			case <-ticker.C:
				if n := store.Cleanup(); n > 0 {
					c.Logger.Info("expired sessions", "count", n, "live", store.Len())
				}
			}
		}
	}()

	printInfo("Listening on http://%s", opts.addr)
	printKeyValue("sessions", fmt.Sprintf("%d, idle %s", opts.limit, opts.ttl))
	printKeyValue("frame cache", cacheBackend(opts.cache))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

// server routes HTTP requests to widget sessions.
type server struct {
	cfg    *config.Config
	store  *session.Store
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

func newServer(cfg *config.Config, store *session.Store, c cache.Cache, logger *log.Logger) *server {
	return &server{
		cfg:    cfg,
		store:  store,
		cache:  c,
		keyer:  cache.NewScopedKeyer(nil, appName+":serve:"),
		logger: logger,
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/events", s.postEvents)
			r.Post("/tick", s.postTick)
			r.Get("/frame.png", s.getFrame)
			r.Get("/frames/{seq}.png", s.getCachedFrame)
			r.Get("/handles", s.getHandles)
			r.Delete("/", s.deleteSession)
		})
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Wire types
// =============================================================================

type createRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type sessionResponse struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// eventRequest uses the script event names, including "double" and "force".
type eventRequest struct {
	Events []struct {
		Kind   string  `json:"kind"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  int     `json:"width"`
		Height int     `json:"height"`
		Up     bool    `json:"up"`
	} `json:"events"`
}

type handleResponse struct {
	Index      int     `json:"index"`
	Label      string  `json:"label,omitempty"`
	Style      string  `json:"style"`
	Dimensions int     `json:"dimensions"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	req := createRequest{Width: s.cfg.Graph.Width, Height: s.cfg.Graph.Height}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	p, src, err := pipeline.Build(s.cfg, linegraph.WithLogger(s.logger))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := p.Widget.Allocate(req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}
	p.Widget.RequestRefresh(false)

	sess := session.New(p.Widget, p.Host, src)
	if err := s.store.Add(sess); err != nil {
		p.Widget.Destroy()
		s.writeError(w, err)
		return
	}
	width, height := sess.Size()
	s.logger.Info("session created", "id", sess.ID, "width", width, "height", height)
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID, Width: width, Height: height})
}

func (s *server) postEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	for i, e := range req.Events {
		ev := host.Event{Kind: e.Kind, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height, Up: e.Up}
		if ev.Force() {
			sess.ForceRedraw()
			continue
		}
		we, err := ev.Widget()
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %d", i))
			return
		}
		if err := sess.Apply([]linegraph.Event{we}); err != nil {
			s.writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) postTick(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	n := 1
	if q := r.URL.Query().Get("n"); q != "" {
		if n, err = strconv.Atoi(q); err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "n must be an integer, got %q", q))
			return
		}
	}
	if err := sess.Tick(n); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) getFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	f, err := sess.Frame()
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := pipeline.Encode(f.Image, pipeline.FormatPNG, 1, pipeline.DefaultQuality)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if f.Fresh {
		key := s.keyer.SessionFrameKey(sess.ID, f.Seq)
		if err := s.cache.Set(r.Context(), key, data, cache.SessionFrameTTL); err != nil {
			s.logger.Warn("cache session frame", "id", sess.ID, "seq", f.Seq, "err", err)
		} else {
			observability.Cache().OnCacheSet(r.Context(), sessionKeyType, len(data))
		}
	}
	w.Header().Set("X-Generation", strconv.Itoa(f.Generation))
	writePNG(w, f.Seq, data)
}

func (s *server) getCachedFrame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	param := chi.URLParam(r, "seq")
	seq, err := strconv.Atoi(param)
	if err != nil || seq < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid frame number %q", param))
		return
	}
	data, hit, err := s.cache.Get(r.Context(), s.keyer.SessionFrameKey(sess.ID, seq))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "read frame"))
		return
	}
	if !hit {
		observability.Cache().OnCacheMiss(r.Context(), sessionKeyType)
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "frame %d of session %s is not kept", seq, sess.ID))
		return
	}
	observability.Cache().OnCacheHit(r.Context(), sessionKeyType)
	writePNG(w, seq, data)
}

func (s *server) getHandles(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := []handleResponse{}
	for i, h := range sess.Handles() {
		if !h.Active {
			continue
		}
		out = append(out, handleResponse{
			Index:      i,
			Label:      h.Label,
			Style:      h.Style.String(),
			Dimensions: h.Dimensions,
			X:          h.X,
			Y:          h.Y,
			Z:          h.Z,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session closed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writePNG writes a served frame; seq is its number within the session.
func writePNG(w http.ResponseWriter, seq int, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Frame", strconv.Itoa(seq))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func cacheBackend(opts cacheOpts) string {
	switch {
	case opts.noCache:
		return "off"
	case opts.redis != "":
		return "redis " + opts.redis
	}
	return "file"
}

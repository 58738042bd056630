// Package server serves diagrams to browsers. Every websocket connection
// gets its own board; the server runs its frames, streams the rendered
// surface as PNG whenever it changes, and feeds pointer and control input
// from the page back into the board's event queue.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"geoboard/frame"
	"geoboard/logging"
	"geoboard/scene"
)

//go:embed static
var static embed.FS

// Config configures a Server.
type Config struct {
	Addr string
	// FPS is the frame rate of every connection.
	FPS int
	// Width and Height are the surface size before the page reports its own.
	Width, Height int
	// ScenePath, when set, is watched and reloaded into open connections.
	ScenePath string
	Options   frame.Options
}

// Server serves one scene to any number of browser connections.
type Server struct {
	cfg      Config
	scene    atomic.Pointer[scene.Scene]
	reg      *prometheus.Registry
	metrics  *metrics
	upgrader websocket.Upgrader
}

// New returns a server for sc.
func New(sc *scene.Scene, cfg Config) *Server {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 600, 400
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		reg:     reg,
		metrics: newMetrics(reg),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
	s.scene.Store(sc)
	return s
}

// SetScene replaces the scene. Open connections switch to it at their next
// frame, which resets their points and controls.
func (s *Server) SetScene(sc *scene.Scene) {
	s.scene.Store(sc)
}

// Scene returns the scene being served.
func (s *Server) Scene() *scene.Scene { return s.scene.Load() }

// Handler returns the server's routes: the page at /, the websocket at
// /ws and Prometheus metrics at /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	page, _ := fs.Sub(static, "static")
	mux.Handle("/", http.FileServer(http.FS(page)))
	mux.HandleFunc("/ws", s.serveWS)
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	log := logging.Logger()

	g.Go(func() error {
		log.Info("serving", "addr", s.cfg.Addr, "scene", s.Scene().Title)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if s.cfg.ScenePath != "" {
		g.Go(func() error {
			return scene.Watch(ctx, s.cfg.ScenePath, func(sc *scene.Scene, err error) {
				if err == nil {
					s.SetScene(sc)
				}
			})
		})
	}
	return g.Wait()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}
	s.metrics.connections.Inc()
	defer s.metrics.connections.Dec()
	logging.Logger().Info("client connected", "remote", r.RemoteAddr)

	sess, err := newSession(s, conn)
	if err != nil {
		logging.Logger().Error("session setup failed", "err", err)
		conn.Close()
		return
	}
	if err := sess.run(r.Context()); err != nil {
		logging.Logger().Debug("session ended", "remote", r.RemoteAddr, "err", err)
	}
}

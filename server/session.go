package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"geoboard/board"
	"geoboard/frame"
	"geoboard/geom"
	"geoboard/logging"
	"geoboard/scene"
	"geoboard/state"
)

// inbound is a message from the page.
type inbound struct {
	Type    string  `json:"type"`
	ID      int64   `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Checked bool    `json:"checked"`
}

type rangeJSON struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type checkboxJSON struct {
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
	Label   string `json:"label"`
}

// controlsMsg tells the page which controls to show and their values.
type controlsMsg struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Ranges     []rangeJSON    `json:"ranges"`
	Checkboxes []checkboxJSON `json:"checkboxes"`
}

// session is one websocket connection and the board it drives. Only the
// frame loop writes to the connection.
type session struct {
	srv   *Server
	conn  *websocket.Conn
	board *board.Board
	scene *scene.Scene

	mu     sync.Mutex
	resize [2]int

	lastControls []byte
	rejected     *scene.Scene
}

func newSession(srv *Server, conn *websocket.Conn) (*session, error) {
	b, err := board.New(srv.cfg.Width, srv.cfg.Height, srv.cfg.Options)
	if err != nil {
		return nil, err
	}
	sess := &session{srv: srv, conn: conn, board: b}
	if err := sess.load(srv.Scene()); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *session) load(sc *scene.Scene) error {
	if err := sc.Apply(s.board); err != nil {
		return fmt.Errorf("server: apply scene: %w", err)
	}
	s.scene = sc
	return nil
}

func (s *session) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.readLoop() })
	g.Go(func() error {
		defer s.conn.Close()
		return s.frameLoop(ctx)
	})
	err := g.Wait()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

func (s *session) readLoop() error {
	for {
		var msg inbound
		if err := s.conn.ReadJSON(&msg); err != nil {
			return err
		}
		if msg.Type == "resize" {
			s.srv.metrics.events.WithLabelValues("resize").Inc()
			s.mu.Lock()
			s.resize = [2]int{msg.Width, msg.Height}
			s.mu.Unlock()
			s.board.Invalidate()
			continue
		}
		ev, err := toEvent(msg)
		if err != nil {
			s.srv.metrics.events.WithLabelValues("unknown").Inc()
			logging.Logger().Debug("dropped client message", "err", err)
			continue
		}
		s.srv.metrics.events.WithLabelValues(ev.Kind.String()).Inc()
		s.board.Post(ev)
	}
}

func toEvent(msg inbound) (frame.Event, error) {
	kind, err := frame.ParseEventKind(msg.Type)
	if err != nil {
		return frame.Event{}, err
	}
	return frame.Event{
		Kind:    kind,
		Pointer: state.PointerID(msg.ID),
		Pos:     geom.V(msg.X, msg.Y),
		Name:    msg.Name,
		Value:   msg.Value,
		Checked: msg.Checked,
	}, nil
}

func (s *session) frameLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.srv.cfg.FPS))
	defer ticker.Stop()
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if sc := s.srv.Scene(); sc != s.scene && sc != s.rejected {
			if err := s.load(sc); err != nil {
				s.rejected = sc
				logging.Logger().Warn("keeping previous scene", "err", err)
			}
		}
		s.mu.Lock()
		if s.resize[0] > 0 && s.resize[1] > 0 {
			s.board.Surface().Resize(s.resize[0], s.resize[1])
			s.resize = [2]int{}
		}
		s.mu.Unlock()

		stats := s.board.Tick()
		s.srv.metrics.frames.Inc()
		s.srv.metrics.frameDuration.Observe(stats.Duration.Seconds())
		if !stats.Changed {
			continue
		}

		if err := s.sendControls(); err != nil {
			return err
		}
		buf.Reset()
		if err := s.board.Surface().EncodePNG(&buf); err != nil {
			return fmt.Errorf("server: encode frame: %w", err)
		}
		if err := s.conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			return err
		}
	}
}

// sendControls writes the controls message when it differs from the last
// one sent.
func (s *session) sendControls() error {
	st := s.board.State()
	w, h := s.board.Surface().BackingSize()
	msg := controlsMsg{
		Type:       "controls",
		Title:      s.scene.Title,
		Width:      w,
		Height:     h,
		Ranges:     []rangeJSON{},
		Checkboxes: []checkboxJSON{},
	}
	for _, r := range st.Ranges() {
		msg.Ranges = append(msg.Ranges, rangeJSON{
			Name: r.Name, Min: r.Min, Max: r.Max, Step: r.Step, Value: r.Value, Label: r.Label(),
		})
	}
	for _, c := range st.Checkboxes() {
		msg.Checkboxes = append(msg.Checkboxes, checkboxJSON{Name: c.Name, Checked: c.Checked, Label: c.Label})
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if bytes.Equal(data, s.lastControls) {
		return nil
	}
	s.lastControls = data
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("server: send controls: %w", err)
	}
	return nil
}

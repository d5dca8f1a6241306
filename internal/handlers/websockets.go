package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"farmtech_irrigation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000

	wsTypeState = "state"
	wsTypeTick  = "tick"
	wsTypeError = "error"
)

// wsEnvelope wraps every message on the dashboard stream.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The dashboard is served from other origins during development.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// tickFeed fans on-demand tick results out to open dashboard streams.
// Delivery is best effort: a stream that has not drained its previous tick
// misses the next one and catches up through its following state.
type tickFeed struct {
	mu   sync.Mutex
	subs map[chan service.TickResult]struct{}
}

func newTickFeed() *tickFeed {
	return &tickFeed{subs: make(map[chan service.TickResult]struct{})}
}

func (f *tickFeed) subscribe() (<-chan service.TickResult, func()) {
	ch := make(chan service.TickResult, 1)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch, func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
}

func (f *tickFeed) publish(res service.TickResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- res:
		default:
		}
	}
}

// stateVersion identifies what a dashboard client has already seen. The
// monitoring cache rebuilds UpdatedAt on every fill, so it is not part of it.
type stateVersion struct {
	latestReading time.Time
	irrigation    service.IrrigationState
	lastEvent     string
	contacts      int
}

func versionOf(st service.DashboardState) stateVersion {
	v := stateVersion{irrigation: st.Irrigation, contacts: st.ActiveContacts}
	for _, r := range st.Snapshot.Readings {
		if r.Timestamp.After(v.latestReading) {
			v.latestReading = r.Timestamp
		}
	}
	if st.LastIrrigation != nil {
		v.lastEvent = st.LastIrrigation.ID
	}
	return v
}

// dashboardStream is one websocket client of the dashboard.
type dashboardStream struct {
	h    *Handler
	conn *websocket.Conn
	seen *stateVersion
}

// wsConnect streams the dashboard state: once on connect, then on every
// interval where something changed, and right after each on-demand tick.
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticks, unsubscribe := h.ticks.subscribe()
	defer unsubscribe()

	poll := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		poll.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	s := &dashboardStream{h: h, conn: conn}
	if err := s.sendState(ctx, true); err != nil {
		h.logStreamEnd("ws_write_failed_initial", err)
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logStreamEnd("ws_ping_failed", err)
				return
			}
		case res := <-ticks:
			if err := s.sendTick(ctx, res); err != nil {
				h.logStreamEnd("ws_write_failed", err)
				return
			}
		case <-poll.C:
			if err := s.sendState(ctx, false); err != nil {
				h.logStreamEnd("ws_write_failed", err)
				return
			}
		}
	}
}

func (h *Handler) logStreamEnd(event string, err error) {
	if h.log != nil {
		h.log.Infow(event, "err", err)
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.logStreamEnd("ws_read_closed", err)
			return
		}
	}
}

// sendTick forwards a tick result and follows it with the state it produced.
func (s *dashboardStream) sendTick(ctx context.Context, res service.TickResult) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(wsEnvelope{Type: wsTypeTick, Data: res}); err != nil {
		return err
	}
	return s.sendState(ctx, true)
}

// sendState writes the dashboard state unless the client has already seen
// this version and force is false. When the state cannot be loaded an error
// envelope is written and the error returned, which ends the stream.
func (s *dashboardStream) sendState(ctx context.Context, force bool) error {
	st, err := s.h.services.Monitoring.GetState(ctx)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_state_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: errGetState})
		return err
	}

	v := versionOf(st)
	if !force && s.seen != nil && *s.seen == v {
		return nil
	}
	if err := s.conn.WriteJSON(wsEnvelope{Type: wsTypeState, Data: st}); err != nil {
		return err
	}
	s.seen = &v
	return nil
}

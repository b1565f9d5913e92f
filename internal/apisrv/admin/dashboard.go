package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/aminejameli/dropservices-manager/internal/entity"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Auth happens in the middleware; the socket itself accepts any origin
	// since the panel is served from a separate host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type dashboardResponse struct {
	*entity.DashboardView
}

func (dr *dashboardResponse) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// getDashboard serves the derived metrics view. The granularity query
// parameter switches time bucketing, defaulting to month.
func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	g := entity.ParseGranularity(r.URL.Query().Get("granularity"))
	v := s.feed.ViewWithGranularity(g)
	if v == nil {
		http.Error(w, "dashboard not ready", http.StatusServiceUnavailable)
		return
	}
	render.Render(w, r, &dashboardResponse{DashboardView: v})
}

// liveDashboard upgrades to a websocket and pushes a fresh view on every
// store change, starting with the current one.
func (s *Server) liveDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ch, cancel := s.feed.Watch()
	defer cancel()

	// Reads are discarded, the pump only keeps pong handling alive.
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if v := s.feed.View(); v != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case v := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(v); err != nil {
				slog.Default().DebugContext(r.Context(), "live dashboard write failed",
					slog.String("err", err.Error()))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/coder/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Send pings to peer with this period.
	pingPeriod = 30 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	originURL, ok := s.checkOrigin(r)
	if !ok {
		s.logger.Warn(r.Context(), errors.New("origin not allowed"), "Rejected websocket connection",
			"origin", r.Header.Get("Origin"))
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{originURL.Host},
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "WebSocket upgrade error")
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 16),
		server: s,
	}

	select {
	case s.register <- client:
	case <-s.hubDone:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	case <-r.Context().Done():
		conn.CloseNow()
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go client.writePump(ctx)
	client.readPump(ctx)
}

// checkOrigin validates the request origin. Same-host origins, the
// configured host and port, localhost aliases of that port and entries of
// server.allowed_origins are accepted.
func (s *PreviewServer) checkOrigin(r *http.Request) (*url.URL, bool) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil, false
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, false
	}

	if originURL.Scheme != "http" && originURL.Scheme != "https" {
		return nil, false
	}

	if originURL.Host == "" {
		return nil, false
	}

	if originURL.Host == r.Host {
		return originURL, true
	}

	port := strconv.Itoa(s.config.Server.Port)
	allowedHosts := []string{
		s.config.Server.Host + ":" + port,
		"localhost:" + port,
		"127.0.0.1:" + port,
	}
	for _, allowed := range allowedHosts {
		if originURL.Host == allowed {
			return originURL, true
		}
	}

	for _, allowed := range s.config.Server.AllowedOrigins {
		if origin == allowed || originURL.Host == allowed {
			return originURL, true
		}
	}

	return nil, false
}

// runWebSocketHub owns the client set. When ctx ends every client is closed.
func (s *PreviewServer) runWebSocketHub(ctx context.Context) {
	defer close(s.hubDone)

	for {
		select {
		case <-ctx.Done():
			s.clientsMutex.Lock()
			for conn, client := range s.clients {
				delete(s.clients, conn)
				close(client.send)
			}
			s.clientsMutex.Unlock()
			return

		case client := <-s.register:
			s.clientsMutex.Lock()
			s.clients[client.conn] = client
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "Client connected", "clients", count)

		case client := <-s.unregister:
			s.clientsMutex.Lock()
			if _, ok := s.clients[client.conn]; ok {
				delete(s.clients, client.conn)
				close(client.send)
			}
			count := len(s.clients)
			s.clientsMutex.Unlock()
			s.logger.Debug(ctx, "Client disconnected", "clients", count)

		case message := <-s.broadcast:
			s.clientsMutex.Lock()
			for conn, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Slow client; it reconnects and reloads on its own.
					delete(s.clients, conn)
					close(client.send)
				}
			}
			s.clientsMutex.Unlock()
		}
	}
}

// readPump drains the connection so control frames are processed, and
// unregisters the client when the peer goes away.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.hubDone:
		}
	}()

	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway &&
				!errors.Is(err, context.Canceled) {
				c.server.logger.Debug(ctx, "WebSocket read ended", "error", err.Error())
			}
			return
		}
	}
}

// writePump sends queued messages and pings. It closes the connection when
// the hub closes the send channel.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case message, ok := <-c.send:
			if !ok {
				c.conn.Close(websocket.StatusGoingAway, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.conn.CloseNow()
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.conn.CloseNow()
				return
			}
		}
	}
}

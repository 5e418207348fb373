package handlers

import (
	"net/http"
	"sync"
	"time"

	"member-portal/internal/middleware"
	"member-portal/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	feedWriteWait  = 5 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = 30 * time.Second
	feedBacklog    = 16
)

var feedUpgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   512,
	WriteBufferSize:  1024,
}

// feedConn is one dashboard viewer. The hub hands it events through Send;
// only writeLoop touches the socket for writing.
type feedConn struct {
	ws       *websocket.Conn
	outbox   chan []byte
	stopOnce sync.Once
	stop     chan struct{}
}

func newFeedConn(ws *websocket.Conn) *feedConn {
	return &feedConn{
		ws:     ws,
		outbox: make(chan []byte, feedBacklog),
		stop:   make(chan struct{}),
	}
}

// Send queues message for the viewer. A viewer whose backlog is full is
// skipped rather than allowed to stall the publisher.
func (f *feedConn) Send(message []byte) bool {
	select {
	case <-f.stop:
		return false
	default:
	}
	select {
	case f.outbox <- message:
		return true
	default:
		return false
	}
}

// Close stops the writer and closes the socket. Safe to call more than once.
func (f *feedConn) Close() {
	f.stopOnce.Do(func() {
		close(f.stop)
		_ = f.ws.Close()
	})
}

func (f *feedConn) writeLoop() {
	ping := time.NewTicker(feedPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-f.stop:
			return
		case msg := <-f.outbox:
			_ = f.ws.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := f.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				f.Close()
				return
			}
		case <-ping.C:
			if err := f.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				f.Close()
				return
			}
		}
	}
}

// readLoop discards anything the browser sends and returns when the
// connection goes away or stops answering pings.
func (f *feedConn) readLoop() {
	f.ws.SetReadLimit(512)
	_ = f.ws.SetReadDeadline(time.Now().Add(feedPongWait))
	f.ws.SetPongHandler(func(string) error {
		return f.ws.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := f.ws.NextReader(); err != nil {
			return
		}
	}
}

// FeedHandler streams dashboard events over a websocket
type FeedHandler struct {
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(hub *realtime.Hub, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: logger}
}

// Events handles GET /dashboard/events. RequireLogin runs first.
func (h *FeedHandler) Events(c *gin.Context) {
	userID := c.GetUint(middleware.UserIDKey)
	if userID == 0 {
		c.Status(http.StatusUnauthorized)
		return
	}

	ws, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		return
	}

	conn := newFeedConn(ws)
	h.hub.Register(userID, conn)
	defer func() {
		h.hub.Unregister(userID, conn)
		conn.Close()
	}()

	go conn.writeLoop()
	conn.readLoop()
}

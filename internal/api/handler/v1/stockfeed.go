package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/viastore/viastore/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	clientBuffer   = 64
	broadcastQueue = 256
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// StockFeed fans stock events out to websocket subscribers. Only Run touches
// the client set. A client that falls behind is dropped.
type StockFeed struct {
	upgrader   websocket.Upgrader
	clients    map[*feedClient]struct{}
	connected  atomic.Int64
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewStockFeed(allowedOrigins []string) *StockFeed {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &StockFeed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		clients:    make(map[*feedClient]struct{}),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done.
func (h *StockFeed) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.connected.Add(1)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *StockFeed) drop(c *feedClient) {
	delete(h.clients, c)
	close(c.send)
	h.connected.Add(-1)
}

// Clients is the number of connected subscribers.
func (h *StockFeed) Clients() int {
	return int(h.connected.Load())
}

// Publish queues the event for every subscriber. It never blocks; when the
// queue is full the event is dropped.
func (h *StockFeed) Publish(event domain.StockEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("stock event marshal failed", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- message:
	default:
		zap.L().Warn("stock feed queue full, event dropped", zap.Uint("item_id", event.ItemID))
	}
}

// HandleWebSocket godoc
// @Summary      Subscribe to stock movements
// @Description  Upgrades to a websocket. Every receipt, correction and import is pushed as a JSON stock event.
// @Tags         stock
// @Success      101      {object}   domain.StockEvent
// @Failure      401      {object}   response.Err
// @Router       /stock/feed [get]
// @Security     BearerAuth
func (h *StockFeed) HandleWebSocket(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &feedClient{
		conn: conn,
		send: make(chan []byte, clientBuffer),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-ctx.Request.Context().Done():
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; subscribers send nothing.
func (c *feedClient) readPump(h *StockFeed) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("stock feed client closed", zap.Error(err))
			}
			return
		}
	}
}

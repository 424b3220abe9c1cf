package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"qr-restaurant/events"
	"qr-restaurant/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware for the
	// REST surface; browser WS clients connect from the same frontends.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSController forwards EventBus subscriptions to WebSocket clients:
// kitchen displays on the kitchen topic, customer views on their
// table's topic.
type WSController struct {
	bus *events.Bus
}

func NewWSController(bus *events.Bus) *WSController {
	return &WSController{bus: bus}
}

// @Summary Kitchen event stream
// @Description WebSocket stream of new_order and status_update events for kitchen displays
// @Tags Kitchen
// @Security BearerAuth
// @Router /ws/kitchen [get]
func (ctrl *WSController) KitchenSocket(c *gin.Context) {
	ctrl.serve(c, events.TopicKitchen)
}

// @Summary Table event stream
// @Description WebSocket stream of events for one table's orders
// @Tags Orders
// @Param number path int true "Table number"
// @Router /ws/table/{number} [get]
func (ctrl *WSController) TableSocket(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid table number",
		})
		return
	}
	ctrl.serve(c, events.TableTopic(number))
}

func (ctrl *WSController) serve(c *gin.Context, topic string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "topic", topic, "error", err)
		return
	}
	defer conn.Close()

	sub := ctrl.bus.Subscribe(topic)
	defer sub.Close()

	// Read pump: the client sends nothing meaningful; reading detects
	// disconnects and services pong frames.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// Dropped by the bus for falling behind.
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "subscriber too slow"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

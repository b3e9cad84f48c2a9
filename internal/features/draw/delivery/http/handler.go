package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wish-lottery-backend/internal/common/logger"
	drawservice "wish-lottery-backend/internal/features/draw/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeTimeout = 5 * time.Second

type DrawHandler struct {
	service *drawservice.DrawService
}

func NewDrawHandler(service *drawservice.DrawService) *DrawHandler {
	return &DrawHandler{service: service}
}

func (h *DrawHandler) RegisterRoutes(router *gin.RouterGroup) {
	draw := router.Group("/draw")
	{
		draw.GET("", h.snapshot)
		draw.POST("/start", h.start)
		draw.POST("/stop", h.stop)
		draw.POST("/reset", h.reset)
		draw.GET("/live", h.live)
	}
}

func (h *DrawHandler) snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot())
}

func (h *DrawHandler) start(c *gin.Context) {
	if err := h.service.Start(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.service.Snapshot())
}

func (h *DrawHandler) stop(c *gin.Context) {
	winner, err := h.service.Stop(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"winner":   winner,
		"snapshot": h.service.Snapshot(),
	})
}

func (h *DrawHandler) reset(c *gin.Context) {
	h.service.Reset()
	c.JSON(http.StatusOK, h.service.Snapshot())
}

// live streams session frames over a websocket: one frame per spin tick
// and a final frame when the session settles or resets.
func (h *DrawHandler) live(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	frames, cancel := h.service.Subscribe()
	defer cancel()

	// Discard client messages; detect the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send the current state immediately so late joiners see something
	// before the next tick.
	if err := writeSnapshot(conn, h.service.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-frames:
			if !ok {
				return
			}
			if err := writeSnapshot(conn, snap); err != nil {
				return
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap drawservice.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(snap)
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/aiassess/assessment-backend/internal/config"
	"github.com/aiassess/assessment-backend/internal/response"
	"github.com/aiassess/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProctoringHandler implements the proctoring stub: an init acknowledgement
// with an artificial warmup delay, and a heartbeat WebSocket that relays
// client events onto a Redis channel. Nothing is persisted and no media is
// handled.
type ProctoringHandler struct {
	cfg      *config.Config
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewProctoringHandler creates a new ProctoringHandler.
func NewProctoringHandler(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *ProctoringHandler {
	return &ProctoringHandler{
		cfg:      cfg,
		rdb:      rdb,
		log:      log.With().Str("component", "proctoring_handler").Logger(),
		upgrader: buildUpgrader(cfg.AllowedOrigins),
	}
}

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// InitRequest names the assessment the proctoring pipeline should warm up for.
type InitRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// HeartbeatEvent is a single client-reported proctoring event.
type HeartbeatEvent struct {
	Event  string `json:"event"`
	Detail string `json:"detail,omitempty"`
}

// Init godoc
// POST /api/proctoring/init
// Idempotent acknowledgement with a fixed warmup delay. No state is kept.
func (h *ProctoringHandler) Init(c *gin.Context) {
	var req InitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.log.Info().Str("title", req.Title).Msg("Proctoring initialized")

	// Simulated pipeline spin-up.
	time.Sleep(h.cfg.ProctorWarmupDelay)

	response.Success(c, http.StatusOK, gin.H{
		"message": "AI proctoring initialized successfully.",
	})
}

// Events godoc
// WS /api/proctoring/events/:title
// Accepts heartbeat frames from the candidate's browser and republishes them
// to a per-title Redis channel for any monitor that cares to subscribe.
func (h *ProctoringHandler) Events(c *gin.Context) {
	title := c.Param("title")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	channel := config.CacheKey.ProctorChannel(title)
	wsLog := h.log.With().Str("title", title).Logger()
	wsLog.Info().Msg("Proctoring stream connected")

	for {
		var event HeartbeatEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if event.Event == "" {
			_ = conn.WriteJSON(gin.H{"status": "error", "message": "event is required"})
			continue
		}

		if err := h.rdb.Publish(c.Request.Context(), channel, event.Event+":"+event.Detail).Err(); err != nil {
			wsLog.Error().Err(err).Msg("Heartbeat publish failed")
		}

		_ = conn.WriteJSON(gin.H{"status": "ok"})
	}
}

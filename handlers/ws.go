package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/tdnguyen-dev/moneykeeper/models"
	"github.com/tdnguyen-dev/moneykeeper/utils"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
)

type WSHandler struct {
	M *melody.Melody
}

func NewWSHandler() *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-Alive configuration (critical for cloud hosting proxies)
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("🔌 Client disconnected: %v", userID)
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("❌ WebSocket error: %v", err)
	})

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get("user_id")
		log.Printf("✅ Client connected: %v", userID)
	})

	return &WSHandler{M: m}
}

// HandleWS upgrades the connection. Browsers cannot set an
// Authorization header on websocket upgrades, so the token travels as
// a query parameter instead.
func (h *WSHandler) HandleWS(c *gin.Context) {
	token := c.Query("token")
	claims, err := utils.ParseAccessToken(token)
	if err != nil {
		c.AbortWithStatus(401)
		return
	}

	keys := map[string]interface{}{"user_id": claims.Subject}
	if err := h.M.HandleRequestWithKeys(c.Writer, c.Request, keys); err != nil {
		log.Printf("❌ Failed to upgrade websocket: %v", err)
	}
}

// PushReminder sends a freshly created reminder to every open session
// belonging to its owner.
func (h *WSHandler) PushReminder(reminder models.Reminder) {
	payload, err := json.Marshal(gin.H{"type": "reminder", "reminder": reminder})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(payload, func(s *melody.Session) bool {
		id, exists := s.Get("user_id")
		return exists && id == reminder.UserID
	})
	if err != nil {
		log.Printf("⚠️ Error pushing reminder to user %s: %v", reminder.UserID, err)
	}
}

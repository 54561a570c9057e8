package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	waLog "go.mau.fi/whatsmeow/util/log"

	"github.com/ricardojlrufino/whatsapp-history-exporter/archive"
	"github.com/ricardojlrufino/whatsapp-history-exporter/models"
)

// Server exposes a small status API next to the archiver: a health probe,
// the archived conversation list, and a WebSocket feed of newly persisted
// messages.
type Server struct {
	router      *gin.Engine
	hub         *Hub
	archiveRoot string
	connected   func() bool
	log         waLog.Logger
}

func New(archiveRoot string, connected func() bool, log waLog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:      router,
		hub:         NewHub(log.Sub("WS")),
		archiveRoot: archiveRoot,
		connected:   connected,
		log:         log,
	}

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	router.GET("/health", s.handleHealth)
	router.GET("/chats", s.handleChats)
	router.GET("/ws", func(c *gin.Context) {
		s.hub.HandleWebSocket(c.Writer, c.Request)
	})

	return s
}

// Hub returns the WebSocket hub so the pipeline can broadcast through it.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves the API on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.log.Infof("Status API listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected": s.connected(),
		"clients":   s.hub.ClientCount(),
	})
}

// handleChats serves the conversation metadata written by the archiver. An
// archive that has not seen a history sync yet yields an empty list.
func (s *Server) handleChats(c *gin.Context) {
	path := filepath.Join(s.archiveRoot, archive.ChatsFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, []models.Chat{})
			return
		}
		s.log.Errorf("Failed to read %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read conversation list"})
		return
	}

	var chats []models.Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		s.log.Errorf("Malformed conversation list at %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "malformed conversation list"})
		return
	}

	c.JSON(http.StatusOK, chats)
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/calendar-aggregator/internal/logger"
	"github.com/pfrederiksen/calendar-aggregator/internal/topic"
)

// RegisterTopicRoutes registers topic endpoints.
func (s *Server) RegisterTopicRoutes(r *gin.Engine) {
	g := r.Group("/api/topics")
	g.Use(s.requireTopics)
	g.GET("", s.handleListTopics)
	g.POST("", s.handleCreateTopic)
	g.GET("/:id/events", s.handleTopicEvents)
	g.DELETE("/:id", s.handleDeleteTopic)
}

// CreateTopicRequest is the body of POST /api/topics
type CreateTopicRequest struct {
	Name string   `json:"name" binding:"required"`
	URLs []string `json:"urls"`
}

func (s *Server) requireTopics(c *gin.Context) {
	if s.topics == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "topics are not enabled"})
		return
	}
	c.Next()
}

func (s *Server) handleListTopics(c *gin.Context) {
	topics, err := s.topics.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

func (s *Server) handleCreateTopic(c *gin.Context) {
	var req CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be blank"})
		return
	}

	t, err := s.topics.Add(c.Request.Context(), req.Name, req.URLs)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleTopicEvents(c *gin.Context) {
	id, ok := topicID(c)
	if !ok {
		return
	}

	t, err := s.topics.Get(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.upcomingByURL(c, t.URLs))
}

func (s *Server) handleDeleteTopic(c *gin.Context) {
	id, ok := topicID(c)
	if !ok {
		return
	}

	if err := s.topics.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func topicID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid topic id"})
		return 0, false
	}
	return id, true
}

func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, topic.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, topic.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Topic store failed", logger.Fields{"path": c.Request.URL.Path}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

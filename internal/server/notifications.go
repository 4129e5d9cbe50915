package server

import (
	"strconv"
	"strings"

	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := s.notifRepo.ListByOwner(c.Request.Context(), s.db, ownerIDFromContext(c), unreadOnly, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rows, nil)
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, reportdomain.NewValidationError("id", "invalid_id"))
		return
	}

	ok, err := s.notifRepo.MarkRead(c.Request.Context(), s.db, ownerIDFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}
	respondData(c, gin.H{"read": id.String()})
}

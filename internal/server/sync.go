package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerSync kicks off a resync of the caller's accounts in the background
// and returns immediately. Progress is visible via /v1/sync/runs.
func (s *Server) TriggerSync(c *gin.Context) {
	ownerID := ownerIDFromContext(c)

	go func(ownerID snowflake.ID) {
		if err := s.syncSvc.SyncOwner(context.Background(), ownerID); err != nil {
			s.log.Error("manual sync failed",
				zap.Int64("owner_id", int64(ownerID)),
				zap.Error(err))
		}
	}(ownerID)

	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"status": "accepted"}})
}

func (s *Server) ListSyncRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := s.runRepo.ListRecentByOwner(c.Request.Context(), s.db, ownerIDFromContext(c), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, runs, nil)
}

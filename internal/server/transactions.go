package server

import (
	"strconv"
	"strings"

	"github.com/adlenslabs/adlens/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

// ListTransactions is the reconciliation drill-down: raw commission events
// for a window, optionally narrowed to one merchant, paged.
func (s *Server) ListTransactions(c *gin.Context) {
	begin, err := parseDateParam(c, "begin")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	page := pagination.Pagination{
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  int32(pageSize),
	}

	rows, err := s.txnRepo.ListPage(c.Request.Context(), s.db, ownerIDFromContext(c),
		begin, end, strings.TrimSpace(c.Query("merchant_id")), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rows, page.PageInfo(len(rows)))
}

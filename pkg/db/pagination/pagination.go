// Package pagination implements offset-token list pagination shared by all
// repositories.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

const DefaultPageSize = 50
const MaxPageSize = 500

type Pagination struct {
	PageToken string
	PageSize  int32
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	PageSize      int32  `json:"page_size"`
}

// Offset decodes the page token into a row offset. An empty or malformed
// token starts from the beginning.
func (p Pagination) Offset() int {
	if p.PageToken == "" {
		return 0
	}
	raw, err := base64.URLEncoding.DecodeString(p.PageToken)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func (p Pagination) Limit() int {
	size := int(p.PageSize)
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return size
}

// NextToken builds the token for the page after this one, or "" when the
// current page was not full.
func (p Pagination) NextToken(rowsReturned int) string {
	if rowsReturned < p.Limit() {
		return ""
	}
	next := p.Offset() + rowsReturned
	return base64.URLEncoding.EncodeToString([]byte(fmt.Sprintf("%d", next)))
}

func (p Pagination) PageInfo(rowsReturned int) *PageInfo {
	return &PageInfo{
		NextPageToken: p.NextToken(rowsReturned),
		PageSize:      int32(p.Limit()),
	}
}

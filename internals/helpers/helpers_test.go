package helper

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestNewPaging(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage string
		want          Paging
	}{
		{"defaults", "", "", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
		{"third page", "3", "10", Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}},
		{"clamped", "1", "1000", Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}},
		{"garbage", "x", "-5", Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaging(tt.page, tt.perPage, 20, 100))
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(45, Paging{Page: 2, PerPage: 20}, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPagination(0, Paging{Page: 1, PerPage: 20}, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestMapPGError(t *testing.T) {
	status, _ := MapPGError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}))
	assert.Equal(t, http.StatusConflict, status)

	status, _ = MapPGError(&pq.Error{Code: "23503"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = MapPGError(&pgconn.PgError{Code: "57014"})
	assert.Equal(t, http.StatusGatewayTimeout, status)

	status, msg := MapPGError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "boom", msg)

	assert.True(t, IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "x"`)))
	assert.False(t, IsUniqueViolation(nil))
}

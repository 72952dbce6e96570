package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/portal-api/pkg/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func TestRespondWithSuccess(t *testing.T) {
	c, rec := newTestContext()
	RespondWithSuccess(c, gin.H{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestRespondWithErrorMapsStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NotFound("bill"), http.StatusNotFound},
		{errors.BadRequest("nope"), http.StatusBadRequest},
		{errors.Unauthorized("nope"), http.StatusUnauthorized},
		{errors.Forbidden("nope"), http.StatusForbidden},
		{errors.Conflict("nope"), http.StatusConflict},
		{errors.TooManyRequests("nope"), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		c, rec := newTestContext()
		RespondWithError(c, tt.err)
		assert.Equal(t, tt.want, rec.Code)
	}
}

func TestRespondWithErrorHidesInternalDetails(t *testing.T) {
	c, rec := newTestContext()
	RespondWithError(c, assertableError("sql: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, errors.CodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "sql")
}

func TestRespondWithPagination(t *testing.T) {
	c, rec := newTestContext()
	RespondWithPagination(c, []string{"a", "b"}, 2, 10, 25)

	var resp struct {
		Success bool              `json:"success"`
		Data    PaginatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Data.Pagination.Page)
	assert.Equal(t, 25, resp.Data.Pagination.Total)
	assert.Equal(t, 3, resp.Data.Pagination.TotalPage)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

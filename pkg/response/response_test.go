package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessAndError(t *testing.T) {
	ok := Success(200, map[string]string{"k": "v"})
	assert.Equal(t, "success", ok.Status)
	assert.Equal(t, 200, ok.StatusCode)
	assert.Nil(t, ok.Meta)

	bad := Error(404, "not found")
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, "not found", bad.Error)
	assert.Nil(t, bad.Data)
}

func TestSuccessWithPaginationRoundsPagesUp(t *testing.T) {
	res := SuccessWithPagination(200, []int{1, 2, 3}, 2, 20, 41)
	require.NotNil(t, res.Meta)
	assert.Equal(t, 2, res.Meta.Page)
	assert.Equal(t, int64(41), res.Meta.Total)
	assert.Equal(t, 3, res.Meta.TotalPages)

	empty := SuccessWithPagination(200, nil, 1, 20, 0)
	require.NotNil(t, empty.Meta)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

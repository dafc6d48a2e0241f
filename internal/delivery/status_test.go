package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromCounters(t *testing.T) {
	assert.Equal(t, StatusNotDelivered, FromCounters(0, 10))
	assert.Equal(t, StatusNotDelivered, FromCounters(-1, 10))
	assert.Equal(t, StatusPartial, FromCounters(5, 10))
	assert.Equal(t, StatusDelivered, FromCounters(10, 10))
	assert.Equal(t, StatusDelivered, FromCounters(12, 10)) // over-delivery still delivered
}

func TestResolvePrecedence(t *testing.T) {
	t.Run("explicit status wins", func(t *testing.T) {
		explicit := string(StatusPartial)
		assert.Equal(t, StatusPartial, Resolve(&explicit, 10, 10, true))
	})

	t.Run("invalid explicit status falls through to counters", func(t *testing.T) {
		explicit := "shipped?"
		assert.Equal(t, StatusDelivered, Resolve(&explicit, 10, 10, false))
	})

	t.Run("counters beat the boolean flag", func(t *testing.T) {
		assert.Equal(t, StatusPartial, Resolve(nil, 5, 10, true))
	})

	t.Run("boolean fallback when no counters", func(t *testing.T) {
		assert.Equal(t, StatusDelivered, Resolve(nil, 0, 0, true))
		assert.Equal(t, StatusNotDelivered, Resolve(nil, 0, 0, false))
	})
}

func TestResolveDeterministic(t *testing.T) {
	// Same inputs always produce the same output regardless of call order.
	first := Resolve(nil, 7, 10, false)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Resolve(nil, 7, 10, false))
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("delivered")
	assert.NoError(t, err)
	assert.Equal(t, StatusDelivered, s)

	_, err = ParseStatus("DELIVERED")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

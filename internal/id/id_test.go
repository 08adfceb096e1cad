package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	prev := New()
	for i := 0; i < 100; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestNewAtRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC)
	s := NewAt(at)
	assert.Len(t, s, 26)

	got, err := Time(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(at))
}

func TestTimeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Time("not-a-ulid")
	assert.Error(t, err)
}

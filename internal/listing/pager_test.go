package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	cases := []struct{ n, size, want int }{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
		{3, 0, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.n, tc.size), "n=%d size=%d", tc.n, tc.size)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-4, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(2, 0))
}

func TestWindowNeverExceedsLength(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for page := -1; page <= 7; page++ {
			start, end := Window(n, page, DefaultPageSize)
			assert.GreaterOrEqual(t, start, 0)
			assert.LessOrEqual(t, start, end)
			assert.LessOrEqual(t, end, n)
			assert.LessOrEqual(t, end-start, DefaultPageSize)
		}
	}

	start, end := Window(12, 3, 5)
	assert.Equal(t, 10, start)
	assert.Equal(t, 12, end)
}

package gallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedImages(n int) []ImageEntry {
	items := make([]ImageEntry, n)
	for i := range items {
		items[i] = ImageEntry{Key: fmt.Sprintf("img-%02d.jpg", i)}
	}
	return items
}

func TestPaginate_Scenario(t *testing.T) {
	// paginate([i1..i10], page=1, size=4) → items[4:8], total 10.
	items := numberedImages(10)

	slice, total := Paginate(items, 1, 4)
	assert.Equal(t, 10, total)
	require.Len(t, slice, 4)
	assert.Equal(t, items[4:8], slice)
}

func TestPaginate_ReconstructsAllItems(t *testing.T) {
	for _, size := range []int{1, 3, 4, 8, 24} {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			items := numberedImages(10)

			var rebuilt []ImageEntry
			for p := 0; p < TotalPages(len(items), size); p++ {
				slice, total := Paginate(items, p, size)
				assert.Equal(t, 10, total)
				rebuilt = append(rebuilt, slice...)
			}
			assert.Equal(t, items, rebuilt)
		})
	}
}

func TestPaginate_Idempotent(t *testing.T) {
	items := numberedImages(10)

	a, _ := Paginate(items, 2, 3)
	b, _ := Paginate(items, 2, 3)
	assert.Equal(t, a, b)
}

func TestPaginate_OutOfRange(t *testing.T) {
	items := numberedImages(10)

	slice, total := Paginate(items, 99, 4)
	assert.Empty(t, slice)
	assert.Equal(t, 10, total)

	slice, total = Paginate(items, -1, 4)
	assert.Empty(t, slice)
	assert.Equal(t, 10, total)
}

func TestPaginate_LastPartialPage(t *testing.T) {
	items := numberedImages(10)

	slice, _ := Paginate(items, 2, 4)
	require.Len(t, slice, 2)
	assert.Equal(t, items[8:], slice)
}

func TestPaginate_Empty(t *testing.T) {
	slice, total := Paginate([]ImageEntry{}, 0, 8)
	assert.Empty(t, slice)
	assert.Zero(t, total)
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 8, 1},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{10, 4, 3},
		{24, 24, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.size),
			"total=%d size=%d", tt.total, tt.size)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-3, 10, 4))
	assert.Equal(t, 1, ClampPage(1, 10, 4))
	assert.Equal(t, 2, ClampPage(99, 10, 4))
	assert.Equal(t, 0, ClampPage(5, 0, 4))
}

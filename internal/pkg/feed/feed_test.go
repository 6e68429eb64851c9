package feed

import (
	"fmt"
	"testing"

	"github.com/bookworm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func books(ids ...string) []domain.Book {
	out := make([]domain.Book, len(ids))
	for i, id := range ids {
		out[i] = domain.Book{BookID: id, Title: "t-" + id}
	}
	return out
}

func ids(bs []domain.Book) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.BookID
	}
	return out
}

func TestDedupe(t *testing.T) {
	got := Dedupe(books("a", "b", "a", "c", "b"))
	assert.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestMerge_KeepsAccumulatedInstance(t *testing.T) {
	acc := []domain.Book{{BookID: "a", Title: "original"}}
	page := []domain.Book{{BookID: "a", Title: "shifted copy"}, {BookID: "b"}}

	got := Merge(acc, page)
	require.Len(t, got, 2)
	assert.Equal(t, "original", got[0].Title)
	assert.Equal(t, "b", got[1].BookID)
}

// Twelve books paged in threes of five: accumulating pages 1-3 must yield
// twelve unique IDs even when an insert shifts a boundary and repeats one.
func TestMerge_AccumulatedPagesUnique(t *testing.T) {
	var all []string
	for i := 1; i <= 12; i++ {
		all = append(all, fmt.Sprintf("b%02d", i))
	}
	page1 := books(all[0:5]...)
	page2 := books(all[4:9]...) // overlaps b05 with page1
	page3 := books(all[9:12]...)

	acc := Merge(nil, page1)
	acc = Merge(acc, page2)
	acc = Merge(acc, page3)

	require.Len(t, acc, 12)
	assert.Equal(t, all, ids(acc))
}

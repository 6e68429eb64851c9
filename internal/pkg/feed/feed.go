// Package feed holds the de-duplication rules for paginated book listings.
// Page boundaries shift under concurrent inserts, so neither the server nor
// an accumulating client may assume pages never overlap; book ID is the
// uniqueness key throughout.
package feed

import "github.com/bookworm-api/internal/domain"

// Dedupe removes duplicate books by ID, keeping the first occurrence and
// preserving order. Used on every assembled page before it leaves the server.
func Dedupe(books []domain.Book) []domain.Book {
	seen := make(map[string]struct{}, len(books))
	out := books[:0]
	for _, b := range books {
		if _, ok := seen[b.BookID]; ok {
			continue
		}
		seen[b.BookID] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Merge appends a newly fetched page onto an accumulated listing, dropping
// any book whose ID is already present. The instance already accumulated
// wins over the incoming duplicate.
func Merge(accumulated, page []domain.Book) []domain.Book {
	seen := make(map[string]struct{}, len(accumulated))
	for _, b := range accumulated {
		seen[b.BookID] = struct{}{}
	}
	out := accumulated
	for _, b := range page {
		if _, ok := seen[b.BookID]; ok {
			continue
		}
		seen[b.BookID] = struct{}{}
		out = append(out, b)
	}
	return out
}

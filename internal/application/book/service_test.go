package book

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/bookworm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// fakeBookStore keeps books in a slice ordered newest-first, matching the
// feed-index query contract.
type fakeBookStore struct {
	books []domain.Book
}

func (f *fakeBookStore) Put(_ context.Context, b *domain.Book) error {
	f.books = append(f.books, *b)
	sort.Slice(f.books, func(i, j int) bool { return f.books[i].BookID > f.books[j].BookID })
	return nil
}

func (f *fakeBookStore) Get(_ context.Context, bookID string) (*domain.Book, error) {
	for i := range f.books {
		if f.books[i].BookID == bookID {
			b := f.books[i]
			return &b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeBookStore) Delete(_ context.Context, bookID string) error {
	for i := range f.books {
		if f.books[i].BookID == bookID {
			f.books = append(f.books[:i], f.books[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBookStore) ListNewest(_ context.Context, n int32) ([]domain.Book, error) {
	if int(n) < len(f.books) {
		return append([]domain.Book(nil), f.books[:n]...), nil
	}
	return append([]domain.Book(nil), f.books...), nil
}

func (f *fakeBookStore) Count(_ context.Context) (int, error) { return len(f.books), nil }

func (f *fakeBookStore) ListByUser(_ context.Context, userID string) ([]domain.Book, error) {
	var out []domain.Book
	for _, b := range f.books {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeUserStore struct {
	users map[string]*domain.User
}

func (f *fakeUserStore) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type fakeImageStore struct {
	uploads map[string]string
	deleted []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{uploads: make(map[string]string)}
}

func (f *fakeImageStore) Upload(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	data, _ := io.ReadAll(r)
	f.uploads[key] = string(data)
	return "https://img.test/" + key, nil
}

func (f *fakeImageStore) UploadDataURL(_ context.Context, key, payload string) (string, error) {
	f.uploads[key] = payload
	return "https://img.test/" + key, nil
}

func (f *fakeImageStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestService() (Service, *fakeBookStore, *fakeUserStore, *fakeImageStore) {
	books := &fakeBookStore{}
	users := &fakeUserStore{users: map[string]*domain.User{
		"u1": {UserID: "u1", Username: "alice", ProfileImage: "https://img.test/alice"},
	}}
	images := newFakeImageStore()
	return NewService(books, users, images), books, users, images
}

func seedBooks(t *testing.T, svc Service, n int) {
	t.Helper()
	owner := &domain.User{UserID: "u1", Username: "alice"}
	for i := 0; i < n; i++ {
		_, err := svc.Create(context.Background(), owner, CreateInput{
			Title:     fmt.Sprintf("Book %02d", i+1),
			Caption:   "a caption",
			Rating:    (i % 5) + 1,
			ImageData: "data:image/jpeg;base64,aGk=",
		})
		require.NoError(t, err)
	}
}

// --- Create ---

func TestCreate_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	owner := &domain.User{UserID: "u1"}

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"missing title", CreateInput{Caption: "c", Rating: 3, ImageData: "x"}},
		{"missing caption", CreateInput{Title: "t", Rating: 3, ImageData: "x"}},
		{"rating too low", CreateInput{Title: "t", Caption: "c", Rating: 0, ImageData: "x"}},
		{"rating too high", CreateInput{Title: "t", Caption: "c", Rating: 6, ImageData: "x"}},
		{"missing image", CreateInput{Title: "t", Caption: "c", Rating: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner, tt.input)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestCreate_UploadsImageAndPersists(t *testing.T) {
	svc, books, _, images := newTestService()
	owner := &domain.User{UserID: "u1", Username: "alice"}

	created, err := svc.Create(context.Background(), owner, CreateInput{
		Title:       "The Dispossessed",
		Caption:     "anarres forever",
		Rating:      5,
		ImageReader: strings.NewReader("png-bytes"),
		ImageName:   "cover.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.Image, "https://img.test/books/u1/"))
	assert.True(t, strings.HasSuffix(created.ImageKey, ".png"))
	assert.Equal(t, owner, created.User)
	require.Len(t, books.books, 1)
	assert.Contains(t, images.uploads, created.ImageKey)
}

// --- List ---

func TestList_PaginationMath(t *testing.T) {
	svc, _, _, _ := newTestService()
	seedBooks(t, svc, 12)
	ctx := context.Background()

	page1, err := svc.List(ctx, 1, 5)
	require.NoError(t, err)
	assert.Len(t, page1.Books, 5)
	assert.Equal(t, 12, page1.TotalBooks)
	assert.Equal(t, 3, page1.TotalPages)
	assert.True(t, page1.CurrentPage < page1.TotalPages) // hasMore

	page3, err := svc.List(ctx, 3, 5)
	require.NoError(t, err)
	assert.Len(t, page3.Books, 2)
	assert.False(t, page3.CurrentPage < page3.TotalPages) // last page

	// Accumulating all three pages yields 12 unique IDs.
	seen := make(map[string]struct{})
	for p := 1; p <= 3; p++ {
		page, err := svc.List(ctx, p, 5)
		require.NoError(t, err)
		for _, b := range page.Books {
			seen[b.BookID] = struct{}{}
		}
	}
	assert.Len(t, seen, 12)
}

func TestList_NewestFirst(t *testing.T) {
	svc, _, _, _ := newTestService()
	seedBooks(t, svc, 3)

	page, err := svc.List(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Books, 3)
	// ULIDs sort by creation time, so descending IDs mean newest-first.
	assert.True(t, page.Books[0].BookID > page.Books[1].BookID)
	assert.True(t, page.Books[1].BookID > page.Books[2].BookID)
}

func TestList_AttachesOwner(t *testing.T) {
	svc, _, _, _ := newTestService()
	seedBooks(t, svc, 1)

	page, err := svc.List(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, page.Books, 1)
	require.NotNil(t, page.Books[0].User)
	assert.Equal(t, "alice", page.Books[0].User.Username)
}

func TestList_EmptyFeed(t *testing.T) {
	svc, _, _, _ := newTestService()

	page, err := svc.List(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Books)
	assert.Equal(t, 0, page.TotalBooks)
	assert.Equal(t, 0, page.TotalPages)
}

func TestList_PageBeyondEnd(t *testing.T) {
	svc, _, _, _ := newTestService()
	seedBooks(t, svc, 3)

	page, err := svc.List(context.Background(), 9, 5)
	require.NoError(t, err)
	assert.Empty(t, page.Books)
	assert.Equal(t, 3, page.TotalBooks)
}

// --- ListByUser ---

func TestListByUser(t *testing.T) {
	svc, books, _, _ := newTestService()
	seedBooks(t, svc, 2)
	books.books = append(books.books, domain.Book{BookID: "zzz", UserID: "someone-else"})

	mine, err := svc.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

// --- Delete ---

func TestDelete_OwnerOnly(t *testing.T) {
	svc, books, _, images := newTestService()
	seedBooks(t, svc, 1)
	target := books.books[0]

	err := svc.Delete(context.Background(), target.BookID, "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, books.books, 1)

	require.NoError(t, svc.Delete(context.Background(), target.BookID, "u1"))
	assert.Empty(t, books.books)
	assert.Equal(t, []string{target.ImageKey}, images.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.Delete(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

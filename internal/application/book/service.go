package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/bookworm-api/internal/domain"
	"github.com/bookworm-api/internal/pkg/feed"
	"github.com/bookworm-api/internal/pkg/id"
	"github.com/bookworm-api/internal/pkg/validate"
)

// CreateInput carries a new recommendation plus its image, supplied either as
// a multipart stream (ImageReader) or inline base64 / data URL (ImageData).
type CreateInput struct {
	Title   string `validate:"required"`
	Caption string `validate:"required"`
	Rating  int    `validate:"required,min=1,max=5"`

	ImageReader io.Reader
	ImageName   string
	ContentType string
	ImageData   string
}

// FeedPage is one page of the global feed plus the pagination totals the
// client needs to decide whether more pages exist.
type FeedPage struct {
	Books       []domain.Book
	CurrentPage int
	TotalBooks  int
	TotalPages  int
}

type Service interface {
	Create(ctx context.Context, owner *domain.User, input CreateInput) (*domain.Book, error)
	// List returns the feed page newest-first with totalPages = ceil(total/limit).
	List(ctx context.Context, page, limit int) (*FeedPage, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Book, error)
	// Delete removes a book and its stored image; only the owner may delete.
	Delete(ctx context.Context, bookID, requesterID string) error
}

type bookStore interface {
	Put(ctx context.Context, b *domain.Book) error
	Get(ctx context.Context, bookID string) (*domain.Book, error)
	Delete(ctx context.Context, bookID string) error
	ListNewest(ctx context.Context, n int32) ([]domain.Book, error)
	Count(ctx context.Context) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Book, error)
}

type userStore interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
}

type imageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	UploadDataURL(ctx context.Context, key, payload string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	books  bookStore
	users  userStore
	images imageStore
}

func NewService(books bookStore, users userStore, images imageStore) Service {
	return &service{books: books, users: users, images: images}
}

func (s *service) Create(ctx context.Context, owner *domain.User, input CreateInput) (*domain.Book, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if input.ImageReader == nil && input.ImageData == "" {
		return nil, fmt.Errorf("image is required: %w", domain.ErrBadRequest)
	}

	bookID := id.New()
	key := fmt.Sprintf("books/%s/%s%s", owner.UserID, bookID, imageExt(input))

	var imageURL string
	var err error
	if input.ImageReader != nil {
		imageURL, err = s.images.Upload(ctx, key, input.ImageReader, input.ContentType)
	} else {
		imageURL, err = s.images.UploadDataURL(ctx, key, input.ImageData)
	}
	if err != nil {
		return nil, err
	}

	b := &domain.Book{
		BookID:    bookID,
		Title:     input.Title,
		Caption:   input.Caption,
		Rating:    input.Rating,
		Image:     imageURL,
		ImageKey:  key,
		UserID:    owner.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.books.Put(ctx, b); err != nil {
		return nil, err
	}
	b.User = owner
	return b, nil
}

func (s *service) List(ctx context.Context, page, limit int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}

	total, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}

	// Over-read up to the end of the requested page and slice; the index can
	// replay items across query pages, so de-dup before slicing.
	fetched, err := s.books.ListNewest(ctx, int32(page*limit))
	if err != nil {
		return nil, err
	}
	fetched = feed.Dedupe(fetched)

	offset := (page - 1) * limit
	books := []domain.Book{}
	if offset < len(fetched) {
		end := offset + limit
		if end > len(fetched) {
			end = len(fetched)
		}
		books = fetched[offset:end]
	}

	if err := s.attachOwners(ctx, books); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &FeedPage{
		Books:       books,
		CurrentPage: page,
		TotalBooks:  total,
		TotalPages:  totalPages,
	}, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]domain.Book, error) {
	books, err := s.books.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return feed.Dedupe(books), nil
}

func (s *service) Delete(ctx context.Context, bookID, requesterID string) error {
	b, err := s.books.Get(ctx, bookID)
	if err != nil {
		return err
	}
	if b.UserID != requesterID {
		return fmt.Errorf("only the owner can delete a book: %w", domain.ErrForbidden)
	}
	// Object removal is best-effort: an orphaned image is preferable to a
	// book that cannot be deleted.
	if b.ImageKey != "" {
		if err := s.images.Delete(ctx, b.ImageKey); err != nil {
			slog.Warn("failed to delete book image", "book_id", bookID, "key", b.ImageKey, "err", err)
		}
	}
	return s.books.Delete(ctx, bookID)
}

// attachOwners resolves each book's owner once and embeds the public
// projection, mirroring the populated user the mobile feed renders.
func (s *service) attachOwners(ctx context.Context, books []domain.Book) error {
	owners := make(map[string]*domain.User)
	for i := range books {
		u, ok := owners[books[i].UserID]
		if !ok {
			var err error
			u, err = s.users.GetByID(ctx, books[i].UserID)
			if err != nil {
				return fmt.Errorf("resolve book owner: %w", err)
			}
			owners[books[i].UserID] = u
		}
		books[i].User = u
	}
	return nil
}

func imageExt(input CreateInput) string {
	if input.ImageName != "" {
		if ext := strings.ToLower(path.Ext(input.ImageName)); ext != "" {
			return ext
		}
	}
	switch {
	case strings.HasPrefix(input.ImageData, "data:image/png"):
		return ".png"
	case strings.HasPrefix(input.ImageData, "data:image/webp"):
		return ".webp"
	case strings.HasPrefix(input.ImageData, "data:image/"):
		return ".jpg"
	case input.ContentType == "image/png":
		return ".png"
	case input.ContentType == "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

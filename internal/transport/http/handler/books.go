package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bookworm-api/internal/application/book"
	"github.com/bookworm-api/internal/domain"
	"github.com/bookworm-api/internal/transport/http/middleware"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// BookHandler exposes the book CRUD and feed endpoints. All routes require an
// authenticated user injected by the auth middleware.
type BookHandler struct {
	svc book.Service
}

func NewBookHandler(svc book.Service) *BookHandler { return &BookHandler{svc: svc} }

// Create accepts either a multipart form with an "image" file part, or a JSON
// body whose "image" field carries a base64 data URL.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input book.CreateInput
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		input.Title = r.FormValue("title")
		input.Caption = r.FormValue("caption")
		input.Rating, _ = strconv.Atoi(r.FormValue("rating"))

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			input.ImageReader = file
			input.ImageName = header.Filename
			input.ContentType = header.Header.Get("Content-Type")
		}
	} else {
		var body struct {
			Title   string `json:"title"`
			Caption string `json:"caption"`
			Rating  int    `json:"rating"`
			Image   string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		input.Title = body.Title
		input.Caption = body.Caption
		input.Rating = body.Rating
		input.ImageData = body.Image
	}

	created, err := h.svc.Create(r.Context(), user, input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// List serves the global feed, newest first, de-duplicated across pages.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 5)

	feedPage, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FeedEnvelope{
		Books:       feedPage.Books,
		CurrentPage: feedPage.CurrentPage,
		TotalBooks:  feedPage.TotalBooks,
		TotalPages:  feedPage.TotalPages,
	})
}

// ListMine returns every book posted by the authenticated user.
func (h *BookHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	books, err := h.svc.ListByUser(r.Context(), user.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	bookID := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), bookID, user.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Book deleted successfully"})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

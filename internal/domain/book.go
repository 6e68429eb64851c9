package domain

import "time"

// Book is a recommendation post. Image is the public object URL; ImageKey is
// the S3 key kept so the object can be removed when the book is deleted.
type Book struct {
	BookID    string    `json:"id" dynamodbav:"book_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	Caption   string    `json:"caption" dynamodbav:"caption"`
	Rating    int       `json:"rating" dynamodbav:"rating"`
	Image     string    `json:"image" dynamodbav:"image"`
	ImageKey  string    `json:"-" dynamodbav:"image_key"`
	UserID    string    `json:"-" dynamodbav:"user_id"`
	User      *User     `json:"user,omitempty" dynamodbav:"-"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type CreateBookRequest struct {
	Title   string `json:"title" validate:"required"`
	Caption string `json:"caption" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	// Image is a base64 payload or a data URL; multipart uploads bypass it.
	Image string `json:"image"`
}

package entity

import "time"

// Book is the aggregate served by /api/Book. Relation fields are filled by
// repository joins; writes only look at the scalar and foreign key fields.
type Book struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	ISBN          *string          `json:"isbn"`
	Description   *string          `json:"description"`
	PublishedDate time.Time        `json:"publishedDate"`
	AuthorID      int64            `json:"authorId"`
	CategoryID    *int64           `json:"categoryId"`
	Author        *AuthorSummary   `json:"author"`
	Category      *CategorySummary `json:"category"`
	Reviews       []ReviewSummary  `json:"reviews"`
}

// BookSummary is a book without its relations, used inside authors,
// categories and reviews.
type BookSummary struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	ISBN          *string   `json:"isbn"`
	PublishedDate time.Time `json:"publishedDate"`
	AuthorID      int64     `json:"authorId"`
	CategoryID    *int64    `json:"categoryId"`
}

package entity

// Category groups books. Books is populated on reads only.
type Category struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Books       []BookSummary `json:"books"`
}

// CategorySummary is the category as embedded in a book.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

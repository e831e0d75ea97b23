package entity

import "time"

type Author struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Biography *string       `json:"biography"`
	BirthDate *time.Time    `json:"birthDate"`
	FullName  string        `json:"fullName"`
	Books     []BookSummary `json:"books"`
}

// AuthorSummary is the author as embedded in a book.
type AuthorSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

// FullName joins first and last name the way every listing displays them.
func FullName(first, last string) string {
	return first + " " + last
}

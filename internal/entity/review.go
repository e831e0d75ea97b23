package entity

import "time"

type Review struct {
	ID          int64        `json:"id"`
	Content     string       `json:"content"`
	Rating      int          `json:"rating"`
	CreatedDate time.Time    `json:"createdDate"`
	BookID      int64        `json:"bookId"`
	UserID      string       `json:"userId"`
	Book        *BookSummary `json:"book"`
	User        *ReviewUser  `json:"user"`
}

// ReviewSummary is a review as embedded in a book.
type ReviewSummary struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	CreatedDate time.Time `json:"createdDate"`
	UserID      string    `json:"userId"`
}

// ReviewUser is the public part of a reviewer's account.
type ReviewUser struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

package post

import "time"

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	Updated   bool      `json:"updated"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the shape returned by the public listing endpoint.
type Summary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

package user

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Never expose password in JSON
	CreatedAt time.Time `json:"created_at"`
}

// Projection is the reduced shape returned by the lookup-by-id endpoint.
type Projection struct {
	Name string `json:"name"`
}

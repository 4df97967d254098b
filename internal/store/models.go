package store

import "time"

type Area struct {
	ID          string
	Name        string
	Slug        string
	Description string
	UsersOnline int
}

type Profile struct {
	ID        string
	FullName  string
	Email     string
	CreatedAt time.Time
}

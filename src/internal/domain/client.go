package domain

import "time"

type Client struct {
	ID          int64
	FirstName   string
	LastName    string
	BirthDate   time.Time
	Gender      string
	Address     string
	Phone       string
	Email       string
	Nationality string
	CreatedAt   time.Time
}

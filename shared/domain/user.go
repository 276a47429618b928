package domain

import "time"

type UserId = string

type User struct {
	Id        UserId
	Username  string
	PassHash  string
	CreatedAt time.Time
}

type Credentials struct {
	Username string
	Password string
}

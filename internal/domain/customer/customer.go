package customer

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("customer: not found")
	ErrConflict     = errors.New("customer: email already registered")
	ErrInvalidName  = errors.New("customer: name is required")
	ErrInvalidEmail = errors.New("customer: email is required")
)

type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(id, name, email string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

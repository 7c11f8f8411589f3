package model

import (
	"time"
)

// Program status values.
const (
	ProgramActive   = "active"
	ProgramInactive = "inactive"
)

// Program is a health program clients can be enrolled in.
type Program struct {
	Key         string `json:"_key,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"` // days
	Category    string `json:"category"`
	Status      string `json:"status"`
}

// Client is a person enrolled with the organization. Email is unique.
type Client struct {
	Key         string    `json:"_key,omitempty"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth"`
	Address     string    `json:"address"`
	ProgramKey  string    `json:"program_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullName returns the client's display name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientProfile is a client together with its program details, as returned by
// the audited profile read.
type ClientProfile struct {
	Client
	Program *Program `json:"program,omitempty"`
}

// ClientAccessLog records one read of a sensitive client profile: who read
// it, when, and from where. Rows are append-only.
type ClientAccessLog struct {
	Key           string    `json:"_key,omitempty"`
	ClientKey     string    `json:"client_key"`
	AccessorKey   string    `json:"accessor_key"`
	AccessorEmail string    `json:"accessor_email"`
	AccessedAt    time.Time `json:"accessed_at"`
	RemoteAddr    string    `json:"remote_addr"`
	Location      string    `json:"location"`
}

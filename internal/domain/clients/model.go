package clients

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrExists   = errors.New("clients: already exists")
	ErrNotFound = errors.New("clients: not found")
)

type Client struct {
	ID         int64
	TelegramID int64
	Name       string
	Phone      string
	AddedBy    int64
	Active     bool
	CreatedAt  time.Time
}

// Complete — у клиента заполнены и имя, и телефон.
func (c *Client) Complete() bool {
	return c != nil && strings.TrimSpace(c.Name) != "" && strings.TrimSpace(c.Phone) != ""
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type RegistrationRequest struct {
	ID         int64
	TelegramID int64
	Name       string
	Username   string
	Status     RequestStatus
	CreatedAt  time.Time
}

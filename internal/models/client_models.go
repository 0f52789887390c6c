package models

import "time"

// Client represents a customer record managed by the API.
type Client struct {
	ID        int64      `json:"id" db:"id"`
	LastName  string     `json:"last_name" db:"last_name"`
	FirstName string     `json:"first_name" db:"first_name"`
	Email     string     `json:"email" db:"email"`
	Phone     *string    `json:"phone" db:"phone"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"` // nil until the first update
}

// ClientList is one page of clients plus the number of clients matching the filter.
type ClientList struct {
	Clients []Client `json:"clients"`
	Total   int      `json:"total"`
}

// ClientFilter selects a page of clients.
type ClientFilter struct {
	Skip   int
	Limit  int
	Active *bool
}

// ClientPatch carries the attributes of a partial update. Only attributes
// whose Optional is Set are applied.
type ClientPatch struct {
	LastName  Optional[string]
	FirstName Optional[string]
	Email     Optional[string]
	Phone     Optional[string] // Null clears the phone
	Active    Optional[bool]
}

// IsEmpty reports whether the patch would change nothing.
func (p ClientPatch) IsEmpty() bool {
	return !p.LastName.Set && !p.FirstName.Set && !p.Email.Set && !p.Phone.Set && !p.Active.Set
}

// Apply merges the present attributes of the patch into client.
func (p ClientPatch) Apply(client *Client) {
	if p.LastName.Set {
		client.LastName = p.LastName.Value
	}
	if p.FirstName.Set {
		client.FirstName = p.FirstName.Value
	}
	if p.Email.Set {
		client.Email = p.Email.Value
	}
	if p.Phone.Set {
		if p.Phone.Null {
			client.Phone = nil
		} else {
			phone := p.Phone.Value
			client.Phone = &phone
		}
	}
	if p.Active.Set {
		client.Active = p.Active.Value
	}
}

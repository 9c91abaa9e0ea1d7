// Package entity defines the request/response shapes of the HTTP API.
package entity

import "userhub/database/model"

// TokenPair is the login response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserPage is the paginated user list payload; it is also the input to the
// weak ETag computation, so its field set and order are part of the cache
// contract.
type UserPage struct {
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Total int                `json:"total"`
	Items []model.PublicUser `json:"items"`
}

// UserStats summarizes the stored users.
type UserStats struct {
	Total         int     `json:"total"`
	Active        int     `json:"active"`
	Inactive      int     `json:"inactive"`
	OrgCount      int     `json:"orgCount"`
	OrgPercentage float64 `json:"orgPercentage"`
}

// UpdateResult wraps a PATCH response.
type UpdateResult struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// ServerStatus is the admin status payload.
type ServerStatus struct {
	Version       string  `json:"version"`
	UptimeSeconds int64   `json:"uptimeSeconds"`
	Cpu           float64 `json:"cpu"`
	Mem           struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Users         int `json:"users"`
	RevokedTokens int `json:"revokedTokens"`
}

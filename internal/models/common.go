package models

import "github.com/golang-jwt/jwt/v5"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ServiceClaims identifies the caller of machine-to-machine endpoints,
// e.g. the cron trigger hitting the reminder run endpoint.
type ServiceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

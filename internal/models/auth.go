package models

import "github.com/golang-jwt/jwt/v5"

// CASUser is the identity extracted from a CAS serviceValidate response.
type CASUser struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Alias       string `json:"alias,omitempty"`
	OrgDN       string `json:"org_dn,omitempty"`
	ContainerID string `json:"container_id,omitempty"`
}

// JWTClaims carries the CAS identity inside the access token.
type JWTClaims struct {
	StudentID string `json:"student_id"`
	FullName  string `json:"full_name"`
	UserType  string `json:"user_type,omitempty"`
	jwt.RegisteredClaims
}

// Pagination describes list paging metadata in response envelopes.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

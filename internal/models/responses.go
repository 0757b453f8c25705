package models

// Explicit response schemas for every endpoint; handlers never emit
// ad-hoc maps for success payloads.

// ProductList is the GET /api/products response.
type ProductList struct {
	Products      []Product `json:"products"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
	TotalProducts int64     `json:"totalProducts"`
	HasNext       bool      `json:"hasNext"`
	HasPrev       bool      `json:"hasPrev"`
}

// TokenResponse is the POST /api/auth/login response.
type TokenResponse struct {
	Token string `json:"token"`
}

// VerifyResponse is the GET /api/auth/verify response.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

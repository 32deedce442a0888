// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for the /auth/register endpoint.
// Password length is checked by the usecase so that short passwords are audited.
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

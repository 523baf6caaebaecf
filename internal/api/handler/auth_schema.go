package handler

import "time"

// errorResponse mirrors the envelope written by the API error handler.
// Only the swagger annotations reference it.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// registerResponse keeps the field names existing clients already read.
type registerResponse struct {
	Username string `json:"usename"`
	Email    string `json:"email"`
	Status   int    `json:"status"`
	Message  string `json:"message"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	Username   string    `json:"username"`
	UserRole   string    `json:"userRole"`
}

type loginErrorResponse struct {
	LoginError string `json:"loginError"`
}

const (
	registerSuccessMsg = "Registeration Successful!"
	loginFailedMsg     = "Please check the login credintials - invalid username/password was entered"
)

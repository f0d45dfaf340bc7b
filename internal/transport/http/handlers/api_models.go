package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CodyErekson/kitchenKiosk/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary describes the authenticated user returned by login endpoints.
type UserSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newUserSummary(authCtx domain.AuthContext) UserSummary {
	return UserSummary{
		ID:       authCtx.UserID,
		Name:     authCtx.Name,
		Username: authCtx.Username,
		Email:    authCtx.Email,
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Remember        bool   `json:"remember"`
}

// LoginRequest defines the payload for the password login endpoint.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Remember   bool   `json:"remember"`
}

// TokenLoginRequest resumes an existing session.
type TokenLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// CookieRedeemRequest carries the browser's remember cookie value.
type CookieRedeemRequest struct {
	Cookie string `json:"cookie" binding:"required"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	Identifier      string `json:"identifier" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LogoutRequest names the account whose sessions should be cleared.
type LogoutRequest struct {
	Username string `json:"username" binding:"required"`
}

// LoginResponse describes the response returned for any successful login flow.
type LoginResponse struct {
	Token          string      `json:"token"`
	Username       string      `json:"username"`
	RememberCookie string      `json:"remember_cookie,omitempty"`
	User           UserSummary `json:"user"`
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "dropmarket.backend/internal/domain/errors"
	"dropmarket.backend/internal/interfaces/http/response"
	"dropmarket.backend/pkg/crypto"
	"dropmarket.backend/pkg/jwt"
)

// AuthHandler exchanges the operator token for a short-lived JWT. The
// operator token itself is never stored; only its bcrypt hash is configured.
type AuthHandler struct {
	tokenHash  string
	jwtService *jwt.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokenHash string, jwtService *jwt.JWTService) *AuthHandler {
	return &AuthHandler{tokenHash: tokenHash, jwtService: jwtService}
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// IssueToken issues a JWT for the admin role
// POST /api/v1/auth/token
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest("token is required"))
		return
	}

	if h.tokenHash == "" || !crypto.CheckToken(req.Token, h.tokenHash) {
		response.Error(c, domainerrors.Unauthorized("invalid operator token"))
		return
	}

	token, err := h.jwtService.GenerateToken("admin")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

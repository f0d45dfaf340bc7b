package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appLogger "github.com/CodyErekson/kitchenKiosk/internal/infra/logger"
	"github.com/CodyErekson/kitchenKiosk/internal/usecase"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth   *usecase.AuthService
	logger *zap.Logger
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

// RegisterRoutes binds authentication routes. The limiter middlewares guard
// the endpoints that accept credentials; pass nil to skip them.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginLimiter, registerLimiter gin.HandlerFunc) {
	register := []gin.HandlerFunc{h.register}
	if registerLimiter != nil {
		register = append([]gin.HandlerFunc{registerLimiter}, register...)
	}
	r.POST("/register", register...)

	login := []gin.HandlerFunc{h.login}
	if loginLimiter != nil {
		login = append([]gin.HandlerFunc{loginLimiter}, login...)
	}
	r.POST("/login", login...)

	r.POST("/login/token", h.loginWithToken)
	r.POST("/cookie/redeem", h.redeemCookie)

	password := []gin.HandlerFunc{h.changePassword}
	if loginLimiter != nil {
		password = append([]gin.HandlerFunc{loginLimiter}, password...)
	}
	r.POST("/password", password...)

	r.POST("/logout", h.logout)
}

var authErrorCases = []ErrorCase{
	{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid request"},
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid username or password"},
	{Err: usecase.ErrAccountUnavailable, Status: http.StatusConflict, Message: "account cannot be created"},
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Name, req.Username, req.Email, req.Password, req.ConfirmPassword, req.Remember, c.ClientIP())
	if err != nil {
		h.logger.Info("registration rejected",
			zap.String("username", req.Username),
			zap.String("email", appLogger.MaskEmail(req.Email)),
			zap.Error(err),
		)
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, loginResponseFrom(result))
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password, req.Remember, c.ClientIP())
	if err != nil {
		h.logger.Info("login rejected",
			zap.String("identifier", appLogger.MaskString(req.Identifier)),
			zap.String("client_ip", appLogger.MaskIP(c.ClientIP())),
			zap.Error(err),
		)
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, loginResponseFrom(result))
}

func (h *AuthHandler) loginWithToken(c *gin.Context) {
	var req TokenLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid token login payload"))
		return
	}

	result, err := h.auth.LoginWithToken(c.Request.Context(), req.Username, req.Token)
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, loginResponseFrom(result))
}

func (h *AuthHandler) redeemCookie(c *gin.Context) {
	var req CookieRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid cookie payload"))
		return
	}

	result, err := h.auth.RedeemRememberCookie(c.Request.Context(), req.Cookie, c.ClientIP())
	if err != nil {
		h.logger.Info("remember cookie rejected",
			zap.String("cookie", appLogger.MaskString(req.Cookie)),
			zap.String("client_ip", appLogger.MaskIP(c.ClientIP())),
			zap.Error(err),
		)
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, loginResponseFrom(result))
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	result, err := h.auth.ChangePassword(c.Request.Context(), req.Identifier, req.Password, req.ConfirmPassword, c.ClientIP())
	if err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "password change failed")
		return
	}

	c.JSON(http.StatusOK, loginResponseFrom(result))
}

func (h *AuthHandler) logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid logout payload"))
		return
	}

	if _, err := h.auth.Logout(c.Request.Context(), req.Username); err != nil {
		RespondWithMappedError(c, err, authErrorCases, http.StatusInternalServerError, "logout failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func loginResponseFrom(result *usecase.LoginResult) LoginResponse {
	return LoginResponse{
		Token:          result.Token,
		Username:       result.Username,
		RememberCookie: result.RememberCookie,
		User:           newUserSummary(result.Context),
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ngcore/storefront-api/internal/api/metrics"
	"github.com/ngcore/storefront-api/internal/core/domain"
	"github.com/ngcore/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {array}   string
// @Failure      500   {object}  errorResponse
// @Router       /api/Account/Register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, []string{"The request body is not valid JSON."})
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return validationResponse(c, err)
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
			return c.JSON(http.StatusBadRequest, verr.Errors)
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, registerResponse{
		Username: user.Username,
		Email:    user.Email,
		Status:   1,
		Message:  registerSuccessMsg,
	})
}

// Login authenticates a user and returns a signed bearer token.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {array}   string
// @Failure      401   {object}  loginErrorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/Account/Login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, []string{"The request body is not valid JSON."})
	}
	if err := c.Validate(&req); err != nil {
		return validationResponse(c, err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			h.logger.Info().Str("username", req.Username).Msg("login rejected")
			return c.JSON(http.StatusUnauthorized, loginErrorResponse{LoginError: loginFailedMsg})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:      res.Token,
		Expiration: res.Expiration,
		Username:   res.Username,
		UserRole:   res.Role,
	})
}

// validationResponse renders a body validation failure as a JSON array of messages.
func validationResponse(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, verr.Errors)
	}
	return c.JSON(http.StatusBadRequest, []string{err.Error()})
}

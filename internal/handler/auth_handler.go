package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"projecthub/internal/auth"
	"projecthub/internal/errors"
	"projecthub/internal/model"
	"projecthub/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Phone           string `json:"phone"`
	DateOfBirth     string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Designation     string `json:"designation"`
	Department      string `json:"department"`
	Experience      string `json:"experience"`
	Skills          string `json:"skills"`
	Address         string `json:"address"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	PostalCode      string `json:"postalCode"`
	Bio             string `json:"bio"`
	LinkedinProfile string `json:"linkedinProfile"`
	GithubProfile   string `json:"githubProfile"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned after registration.
type RegisterResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// LoginResponse is returned after login.
type LoginResponse struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	dob, err := optionalDate(req.DateOfBirth)
	if err != nil {
		return badRequest("invalid dateOfBirth")
	}

	token, user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       optional(req.FirstName),
		LastName:        optional(req.LastName),
		Phone:           optional(req.Phone),
		DateOfBirth:     dob,
		Designation:     optional(req.Designation),
		Department:      optional(req.Department),
		Experience:      optional(req.Experience),
		Skills:          optional(req.Skills),
		Address:         optional(req.Address),
		City:            optional(req.City),
		State:           optional(req.State),
		Country:         optional(req.Country),
		PostalCode:      optional(req.PostalCode),
		Bio:             optional(req.Bio),
		LinkedinProfile: optional(req.LinkedinProfile),
		GithubProfile:   optional(req.GithubProfile),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, RegisterResponse{Token: token, User: user})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token, User: user.Summary()})
}

// Profile godoc
// @Summary Profile of the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Error: errors.ErrUnauthorized.Error()})
	}
	return c.JSON(http.StatusOK, user)
}

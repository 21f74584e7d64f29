package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/auth"
	"github.com/qualifica/professor-rating-api/internal/repository"
)

// AuthHandler translates HTTP requests into auth service calls and maps
// the service's sentinel errors onto status codes. Responses never carry
// the password hash.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(a *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // STUDENT | ADMIN
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type emailReq struct {
	Email string `json:"email"`
}
type verifyReq struct {
	Token string `json:"token"`
}
type logoutReq struct {
	Token string `json:"token"`
}

// principalFrom rebuilds the acting principal from the claims the
// optional JWT middleware put in context. An absent identity yields the
// explicit anonymous principal rather than a nil user.
func principalFrom(c echo.Context) auth.Principal {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return auth.Anonymous()
	}
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return auth.AuthenticatedAs(repository.User{ID: uid, Email: email, Role: role})
}

// Register: create the account and trigger the verification email. The
// route sits behind the optional JWT middleware so an admin's bearer
// token can authorize creating another admin.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	res, err := h.Auth.Register(c.Request().Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}, principalFrom(c))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAdminRequired):
			return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": res.Message,
		"user":    sanitizeUser(res.User),
	})
}

// Login: verify credentials. An unverified account is a valid outcome
// that carries no token; the verification link has been re-sent.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	if !res.EmailVerified {
		return c.JSON(http.StatusOK, echo.Map{
			"emailVerified": false,
			"message":       "Email not verified. A new verification link has been sent to your inbox.",
			"user":          sanitizeUser(res.User),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"emailVerified": true,
		"accessToken":   res.AccessToken,
		"expiresAt":     res.ExpiresAt.Format(time.RFC3339),
		"user":          sanitizeUser(res.User),
	})
}

// Logout: blacklist the presented token's jti. The token is read from
// the Authorization header, with a JSON body fallback so clients that
// already dropped the header can still revoke. Always succeeds, even for
// garbage input; an unusable token needs no revocation.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	if token == "" {
		var req logoutReq
		_ = c.Bind(&req)
		token = strings.TrimSpace(req.Token)
	}

	res, err := h.Auth.Logout(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   res.Message,
		"timestamp": res.Timestamp.Format(time.RFC3339),
	})
}

// VerifyEmail: consume a magic link. The token arrives either as the
// ?token= query parameter (the emailed URL) or in a JSON body.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := strings.TrimSpace(c.QueryParam("token"))
	if token == "" {
		var req verifyReq
		_ = c.Bind(&req)
		token = strings.TrimSpace(req.Token)
	}
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	res, err := h.Auth.VerifyEmail(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidLink),
			errors.Is(err, auth.ErrLinkUsed),
			errors.Is(err, auth.ErrLinkExpired),
			errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "verification failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": res.Message,
		"user":    sanitizeUser(res.User),
	})
}

// ResendVerification: rotate the magic link and send it again.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	err := h.Auth.SendVerificationEmail(c.Request().Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound),
			errors.Is(err, auth.ErrEmailAlreadyVerified):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send verification email"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email sent. Please check your inbox."})
}

// Profile: return the authenticated user's record (protected).
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	user, err := h.Auth.GetProfile(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, sanitizeUser(user))
}

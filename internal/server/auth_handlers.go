package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"threads/internal/middleware"
	"threads/internal/models"
	"threads/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "threads-api"
	tokenAudience = "threads-client"
	tokenLifetime = 30 * 24 * time.Hour
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration.
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, models.NewValidationError(err.Error()))
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, models.NewValidationError("Name is required"))
	}

	ctx := c.UserContext()
	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return models.RespondWithError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, models.NewValidationError("Username already exists"))
	}
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return models.RespondWithError(c, err)
	} else if existing != nil {
		return models.RespondWithError(c, models.NewValidationError("Email already exists"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Bio:      req.Bio,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles user authentication.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	ctx := c.UserContext()
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	// Compare against a cost-equivalent dummy hash when the user does not
	// exist so response timing does not reveal valid usernames.
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(req.Password))
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// generateToken creates a signed JWT for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken validates a signed JWT and returns the user ID it carries.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.config.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}
	return uint(id), nil
}

// AuthRequired returns middleware that validates the Bearer token and loads
// the authenticated user into the request locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return models.RespondWithError(c, models.NewUnauthorizedError("Missing or invalid authorization header"))
		}

		userID, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return models.RespondWithError(c, err)
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			// A valid token for a deleted account still fails auth;
			// lookup failures keep their own status.
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Status == fiber.StatusNotFound {
				return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
			}
			return models.RespondWithError(c, err)
		}

		c.Locals("userID", userID)
		c.Locals("currentUser", user)
		// ContextMiddleware runs before auth, so propagate the user ID
		// into the context here for the context-aware logger.
		c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, userID))
		return c.Next()
	}
}

// optionalUserID extracts the user ID from a Bearer token when one is
// present. Anonymous and invalid tokens both resolve to zero.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return 0
	}
	userID, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return 0
	}
	return userID
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"crewclock-backend/internal/middleware"
	"crewclock-backend/internal/models"
	"crewclock-backend/internal/repository"
)

type AuthService struct {
	workerRepo *repository.WorkerRepo
	redis      *redis.Client
	jwt        *middleware.JWTAuth
}

func NewAuthService(workerRepo *repository.WorkerRepo, redisClient *redis.Client, jwt *middleware.JWTAuth) *AuthService {
	return &AuthService{
		workerRepo: workerRepo,
		redis:      redisClient,
		jwt:        jwt,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Failed-password throttle per email, tracked in Redis.
const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	// Validate all fields at once
	fieldErrors := make(map[string]string)
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if req.Password == "" {
		fieldErrors["password"] = "Password is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	attemptsKey := "login_attempts:" + req.Email
	if attempts, err := s.redis.Get(ctx, attemptsKey).Int(); err == nil && attempts >= maxLoginAttempts {
		return nil, &RateLimitError{Message: "Too many failed login attempts. Please try again later."}
	}

	worker, err := s.workerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Invalid email or password"}
		}
		return nil, err
	}

	if !worker.IsActive {
		return nil, &UnauthorizedError{Message: "Account is deactivated"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.PasswordHash), []byte(req.Password)); err != nil {
		s.redis.Incr(ctx, attemptsKey)
		s.redis.Expire(ctx, attemptsKey, loginAttemptWindow)
		return nil, &UnauthorizedError{Message: "Invalid email or password"}
	}

	s.redis.Del(ctx, attemptsKey)
	s.workerRepo.UpdateLastLogin(ctx, worker.ID)

	return s.issueTokens(ctx, worker)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	userIDStr, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	// Delete old token (rotation)
	s.redis.Del(ctx, "refresh:"+refreshToken)

	worker, err := s.workerRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !worker.IsActive {
		return nil, &UnauthorizedError{Message: "Account is deactivated"}
	}

	return s.issueTokens(ctx, worker)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.redis.Del(ctx, "refresh:"+refreshToken).Err()
}

func (s *AuthService) issueTokens(ctx context.Context, worker *models.Worker) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(worker.ID, worker.Email, worker.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}

	// Store refresh token in Redis (7 days)
	err = s.redis.Set(ctx, "refresh:"+refreshToken, worker.ID.String(), 7*24*time.Hour).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    900,
	}, nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

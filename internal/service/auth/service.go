package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigline/gigline-backend-go/internal/domain/auth"
	"github.com/gigline/gigline-backend-go/internal/domain/worker"
	"github.com/gigline/gigline-backend-go/internal/pkg/database"
	"github.com/gigline/gigline-backend-go/internal/pkg/jwt"
	"github.com/gigline/gigline-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db database.TxManager
	worker.WorkerRepository
	jwt.Service
	postgresql.JWTRepository
}

func NewAuthService(db database.TxManager, workerRepository worker.WorkerRepository, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:               db,
		WorkerRepository: workerRepository,
		Service:          jwtService,
		JWTRepository:    jwtRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if _, err := a.WorkerRepository.GetByEmail(ctx, req.Email); err == nil {
		return auth.TokenResponse{}, worker.ErrEmailExists
	} else if !errors.Is(err, worker.ErrWorkerNotFound) && !errors.Is(err, pgx.ErrNoRows) {
		return auth.TokenResponse{}, fmt.Errorf("failed to check existing worker: %w", err)
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var tokenResponse auth.TokenResponse

	err = a.db.InTx(ctx, func(ctx context.Context) error {
		created, err := a.WorkerRepository.Create(ctx, worker.Worker{
			Email:         req.Email,
			PasswordHash:  passwordHash,
			FullName:      req.FullName,
			Role:          worker.RoleWorker,
			Skills:        req.Skills,
			HomeLatitude:  req.HomeLatitude,
			HomeLongitude: req.HomeLongitude,
		})
		if err != nil {
			return err
		}
		return a.issueTokens(ctx, created, &tokenResponse)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	w, err := a.WorkerRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) || errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get worker by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse

	err = a.db.InTx(ctx, func(ctx context.Context) error {
		return a.issueTokens(ctx, w, &tokenResponse)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Refresh implements auth.AuthService. Refresh tokens rotate: the presented
// token is revoked and a fresh pair is issued in the same transaction.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	workerID, err := a.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	w, err := a.WorkerRepository.GetByID(ctx, workerID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get worker: %w", err)
	}

	var tokenResponse auth.TokenResponse

	err = a.db.InTx(ctx, func(ctx context.Context) error {
		if err := a.JWTRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return a.issueTokens(ctx, w, &tokenResponse)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := a.validateRefreshToken(ctx, refreshToken); err != nil {
		return err
	}
	if err := a.JWTRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// validateRefreshToken verifies the signature, claims and revocation state
// of a presented refresh token and returns the worker it belongs to.
func (a *AuthServiceImpl) validateRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", auth.ErrInvalidToken
	}

	token, err := a.Service.JWTAuth().Decode(refreshToken)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	claims, err := token.AsMap(ctx)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != "refresh" {
		return "", auth.ErrInvalidToken
	}
	workerID, _ := claims["worker_id"].(string)
	if workerID == "" {
		return "", auth.ErrInvalidToken
	}

	revoked, err := a.JWTRepository.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrInvalidToken
		}
		return "", fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return "", auth.ErrRefreshTokenRevoked
	}

	return workerID, nil
}

// issueTokens generates an access/refresh pair for the worker and persists
// the refresh token hash. Must run inside a transaction.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, w worker.Worker, out *auth.TokenResponse) error {
	accessToken, accessExp, err := a.Service.GenerateAccessToken(w.ID, w.Email, w.Role)
	if err != nil {
		return fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, refreshExp, err := a.Service.GenerateRefreshToken(w.ID)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	if err := a.JWTRepository.CreateRefreshToken(ctx, w.ID, refreshToken, refreshExp); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	*out = auth.TokenResponse{
		AccessToken:  accessToken,
		ExpiresAt:    accessExp,
		RefreshToken: refreshToken,
		RefreshExp:   refreshExp,
		WorkerID:     w.ID,
		Email:        w.Email,
		Role:         string(w.Role),
	}
	return nil
}

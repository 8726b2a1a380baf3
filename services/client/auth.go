package client

import (
	"context"
	"fmt"
	"time"

	"pawhaven/utils"

	"pawhaven/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenDuration = 72 * time.Hour

// SignUp validates the registration payload, hashes the password and persists
// the client, returning a ready-to-use auth token.
func (s *DefaultClientService) SignUp(req models.Client) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}

	existing, err := s.Repo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to check for existing client", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	now := time.Now()
	rec := models.Client{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hashedPassword),
		Pets:         req.Pets,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	token, err := utils.GenerateToken(rec.ID, rec.Email, "client", tokenDuration)
	if err != nil {
		utils.GetLogger().Error("SignUp: failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	rec.TokenHash = utils.HashToken(token)

	if err := s.Repo.Create(&rec); err != nil {
		utils.GetLogger().Error("SignUp: failed to create client", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	cacheTokenHash(rec.ID, rec.TokenHash)

	return &AuthResponse{
		ID:          rec.ID,
		Token:       token,
		Name:        rec.Name,
		Email:       rec.Email,
		PhoneNumber: rec.PhoneNumber,
	}, nil
}

// SignIn verifies credentials and rotates the auth token.
func (s *DefaultClientService) SignIn(email, password string) (*AuthResponse, error) {
	rec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("SignIn: failed to fetch client", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if rec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if rec.Banned {
		return nil, fmt.Errorf("this account has been suspended")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(rec.ID, rec.Email, "client", tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	tokenHash := utils.HashToken(token)

	if err := s.Repo.UpdateSetDocument(rec.ID, bson.M{"tokenHash": tokenHash, "updatedAt": time.Now()}); err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	cacheTokenHash(rec.ID, tokenHash)

	return &AuthResponse{
		ID:          rec.ID,
		Token:       token,
		Name:        rec.Name,
		Email:       rec.Email,
		PhoneNumber: rec.PhoneNumber,
	}, nil
}

// SignOut invalidates the stored token hash so the current token stops working.
func (s *DefaultClientService) SignOut(clientID string) error {
	if err := s.Repo.UpdateSetDocument(clientID, bson.M{"tokenHash": "", "updatedAt": time.Now()}); err != nil {
		return fmt.Errorf("sign out failed: %w", err)
	}
	dropCachedTokenHash(clientID)
	return nil
}

// cacheTokenHash mirrors the token hash in Redis so the auth middleware can
// validate without a database round trip. Cache failures are non-fatal.
func cacheTokenHash(id, tokenHash string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := utils.GetAuthCacheClient().Set(ctx, "auth:"+id, tokenHash, tokenDuration).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache token hash", zap.String("id", id), zap.Error(err))
	}
}

func dropCachedTokenHash(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := utils.GetAuthCacheClient().Del(ctx, "auth:"+id).Err(); err != nil {
		utils.GetLogger().Warn("failed to drop cached token hash", zap.String("id", id), zap.Error(err))
	}
}

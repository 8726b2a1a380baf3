package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	clientRepo "pawhaven/database/repository/client"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// authenticate validates the bearer token and checks its hash against the
// auth cache, falling back to the stored hash loaded by lookup. It returns the
// subject id, or empty when the request was already aborted.
func authenticate(c *gin.Context, wantRole string, lookup func(id string) (string, error)) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := utils.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return ""
	}

	role, err := utils.ExtractRoleFromToken(tokenString)
	if err != nil || role != wantRole {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token role mismatch"})
		return ""
	}

	id, err := utils.ExtractIDFromToken(tokenString)
	if err != nil || id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return ""
	}

	computedHash := utils.HashToken(tokenString)
	ctx := context.Background()
	cacheKey := "auth:" + id

	authCache := utils.GetAuthCacheClient()
	cachedHash, err := authCache.Get(ctx, cacheKey).Result()
	if err == nil {
		if cachedHash != computedHash {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
			return ""
		}
		_ = authCache.Expire(ctx, cacheKey, time.Hour).Err()
		return id
	}
	if err != redis.Nil {
		// Cache unavailable; fall through to the database lookup.
		utils.GetLogger().Warn("auth cache lookup failed, falling back to database")
	}

	storedHash, err := lookup(id)
	if err != nil || storedHash == "" || storedHash != computedHash {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token mismatch"})
		return ""
	}
	_ = authCache.Set(ctx, cacheKey, computedHash, time.Hour).Err()
	return id
}

// JWTAuthClientMiddleware guards pet-owner endpoints.
func JWTAuthClientMiddleware(repo clientRepo.ClientRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := authenticate(c, "client", func(id string) (string, error) {
			rec, err := repo.GetByID(id)
			if err != nil {
				return "", err
			}
			if rec.Banned {
				return "", nil
			}
			return rec.TokenHash, nil
		})
		if id == "" {
			return
		}
		c.Set("clientID", id)
		c.Set("role", "client")
		c.Next()
	}
}

// JWTAuthContractorMiddleware guards care-provider endpoints.
func JWTAuthContractorMiddleware(repo contractorRepo.ContractorRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := authenticate(c, "contractor", func(id string) (string, error) {
			rec, err := repo.GetByID(id)
			if err != nil {
				return "", err
			}
			if rec.Banned {
				return "", nil
			}
			return rec.TokenHash, nil
		})
		if id == "" {
			return
		}
		c.Set("contractorID", id)
		c.Set("role", "contractor")
		c.Next()
	}
}

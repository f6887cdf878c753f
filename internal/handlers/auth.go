package handlers

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/models"
	"luxe-backend/internal/notify"
)

const (
	minPasswordLength = 8
	bcryptCost        = 12
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Register creates the account, issues the first token pair and sends a
// best-effort welcome email.
func Register(db *mongo.Database, mailer notify.Mailer, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.Password) < minPasswordLength {
			fail(c, route, apperr.BadRequest("Password must be at least 8 characters"))
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			fail(c, route, err)
			return
		}
		if count > 0 {
			fail(c, route, apperr.Conflict("Email already registered"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			fail(c, route, err)
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			Addresses:    []models.Address{},
			Newsletter:   true,
			Cart:         []models.CartEntry{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				fail(c, route, apperr.Conflict("Email already registered"))
				return
			}
			fail(c, route, err)
			return
		}
		user.ID, _ = res.InsertedID.(primitive.ObjectID)

		tokens, err := issueTokens(ctx, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			fail(c, route, err)
			return
		}

		if err := mailer.Send(user.Email, "Welcome to Luxe Store!",
			fmt.Sprintf("Hi %s,\n\nWelcome to Luxe Store! We're thrilled to have you.\n\nEnjoy premium shopping.", user.Name)); err != nil {
			log.Println("[MAIL] [ERROR] welcome email failed:", err)
		}

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"user":         user,
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
		})
	}
}

// Login verifies credentials and issues a fresh token pair. Unknown email and
// wrong password return the same response so accounts cannot be enumerated.
func Login(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.Unauthorized("Invalid credentials"))
				return
			}
			fail(c, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			fail(c, route, apperr.Unauthorized("Invalid credentials"))
			return
		}

		if err := capActiveSessions(ctx, db, user.ID); err != nil {
			log.Println("[AUTH] [ERROR] session cap failed:", err)
		}

		tokens, err := issueTokens(ctx, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			fail(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", user.Email)
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"user":         user,
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
		})
	}
}

// Refresh rotates the presented refresh token: the old document is claimed
// atomically so a concurrent replay of the same token loses.
func Refresh(db *mongo.Database, jwtSecret string, accessTTL, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/refresh"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		plain := strings.TrimSpace(req.RefreshToken)
		if plain == "" {
			fail(c, route, apperr.BadRequest("Refresh token required"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var claimed models.RefreshToken
		err := db.Collection("refresh_tokens").FindOneAndUpdate(ctx,
			bson.M{"tokenHash": hashToken(plain), "revoked": false},
			bson.M{"$set": bson.M{"revoked": true}},
		).Decode(&claimed)
		if err != nil {
			fail(c, route, apperr.Unauthorized("Refresh token not recognized"))
			return
		}

		if time.Now().After(claimed.ExpiresAt) {
			fail(c, route, apperr.Unauthorized("Refresh token expired"))
			return
		}

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": claimed.UserID}).Decode(&user); err != nil {
			fail(c, route, apperr.Unauthorized("Refresh token not recognized"))
			return
		}

		tokens, err := issueTokens(ctx, db, user.ID, user.Role, jwtSecret, accessTTL, refreshTTL)
		if err != nil {
			fail(c, route, err)
			return
		}

		_, _ = db.Collection("refresh_tokens").UpdateByID(ctx, claimed.ID, bson.M{
			"$set": bson.M{"replacedByToken": tokens.RefreshTokenID},
		})

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"accessToken":  tokens.AccessToken,
			"refreshToken": tokens.RefreshToken,
		})
	}
}

// Logout revokes the refresh token if it exists; it always reports success.
func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/logout"
		defer handlePanic(c, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()

			_, _ = db.Collection("refresh_tokens").UpdateOne(ctx,
				bson.M{"tokenHash": hashToken(strings.TrimSpace(req.RefreshToken)), "revoked": false},
				bson.M{"$set": bson.M{"revoked": true}},
			)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
	}
}

type issuedTokens struct {
	AccessToken    string
	RefreshToken   string
	RefreshTokenID primitive.ObjectID
}

func issueTokens(ctx context.Context, db *mongo.Database, userID primitive.ObjectID, role, secret string, accessTTL, refreshTTL time.Duration) (*issuedTokens, error) {
	accessToken, err := issueAccessToken(userID, role, secret, accessTTL)
	if err != nil {
		return nil, err
	}

	plainRefresh, err := generateRefreshString()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	refresh := models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(plainRefresh),
		ExpiresAt: now.Add(refreshTTL),
		Revoked:   false,
		CreatedAt: now,
	}

	res, err := db.Collection("refresh_tokens").InsertOne(ctx, refresh)
	if err != nil {
		return nil, err
	}

	refreshID, _ := res.InsertedID.(primitive.ObjectID)
	return &issuedTokens{
		AccessToken:    accessToken,
		RefreshToken:   plainRefresh,
		RefreshTokenID: refreshID,
	}, nil
}

func issueAccessToken(userID primitive.ObjectID, role, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"role":   role,
		"exp":    time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// capActiveSessions revokes the oldest active refresh tokens so that after
// the next issue the user holds at most MaxActiveSessions.
func capActiveSessions(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) error {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := db.Collection("refresh_tokens").Find(ctx,
		bson.M{"userId": userID, "revoked": false}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var active []models.RefreshToken
	if err := cursor.All(ctx, &active); err != nil {
		return err
	}

	if len(active) < models.MaxActiveSessions {
		return nil
	}

	stale := make([]primitive.ObjectID, 0)
	for _, token := range active[models.MaxActiveSessions-1:] {
		stale = append(stale, token.ID)
	}

	_, err = db.Collection("refresh_tokens").UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": stale}},
		bson.M{"$set": bson.M{"revoked": true}},
	)
	return err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateRefreshString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxe-backend/internal/middleware"
	"luxe-backend/internal/models"
)

func findOneAndUpdateReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Newsletter *bool   `json:"newsletter"`
}

type addressRequest struct {
	Label     string `json:"label"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func UpdateMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/me"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updates := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Newsletter != nil {
			updates["newsletter"] = *req.Newsletter
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err := db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": user.ID},
			bson.M{"$set": updates},
			findOneAndUpdateReturnAfter(),
		).Decode(&updated)
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": updated})
	}
}

func AddAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/me/addresses"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address := models.Address{
			ID:        uuid.NewString(),
			Label:     strings.TrimSpace(req.Label),
			Name:      strings.TrimSpace(req.Name),
			Phone:     strings.TrimSpace(req.Phone),
			Street:    strings.TrimSpace(req.Street),
			City:      strings.TrimSpace(req.City),
			State:     strings.TrimSpace(req.State),
			Pincode:   strings.TrimSpace(req.Pincode),
			Country:   strings.TrimSpace(req.Country),
			IsDefault: req.IsDefault,
		}
		if address.Label == "" {
			address.Label = "Home"
		}
		if address.Country == "" {
			address.Country = "India"
		}

		addresses := user.Addresses
		if address.IsDefault {
			for i := range addresses {
				addresses[i].IsDefault = false
			}
		}
		addresses = append(addresses, address)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()},
		})
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "addresses": addresses})
	}
}

func DeleteAddress(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/me/addresses/:id"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)
		addressID := c.Param("id")

		addresses := make([]models.Address, 0, len(user.Addresses))
		for _, address := range user.Addresses {
			if address.ID != addressID {
				addresses = append(addresses, address)
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{"addresses": addresses, "updatedAt": time.Now()},
		})
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
	}
}

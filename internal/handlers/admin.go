package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/models"
)

func lowStockProducts(products []models.Product) []models.Product {
	low := make([]models.Product, 0)
	for _, product := range products {
		if product.LowStock() {
			low = append(low, product)
		}
	}
	return low
}

// Dashboard serves the admin aggregates. The reads are independent, so they
// run concurrently.
func Dashboard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/dashboard"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var (
			totalOrders int64
			totalUsers  int64
			products    []models.Product
			revenue     int64
		)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			var err error
			totalOrders, err = db.Collection("orders").CountDocuments(gctx, bson.M{})
			return err
		})

		g.Go(func() error {
			var err error
			totalUsers, err = db.Collection("users").CountDocuments(gctx, bson.M{"role": models.RoleUser})
			return err
		})

		g.Go(func() error {
			cursor, err := db.Collection("products").Find(gctx, bson.M{"isActive": true},
				options.Find().SetProjection(bson.M{"title": 1, "inventory": 1, "price": 1}))
			if err != nil {
				return err
			}
			defer cursor.Close(gctx)
			return cursor.All(gctx, &products)
		})

		g.Go(func() error {
			cursor, err := db.Collection("orders").Aggregate(gctx, mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"paymentStatus": models.PaymentPaid}}},
				{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
			})
			if err != nil {
				return err
			}
			defer cursor.Close(gctx)

			var results []struct {
				Total int64 `bson:"total"`
			}
			if err := cursor.All(gctx, &results); err != nil {
				return err
			}
			if len(results) > 0 {
				revenue = results[0].Total
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			fail(c, route, err)
			return
		}

		lowStock := lowStockProducts(products)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats": gin.H{
				"totalOrders":   totalOrders,
				"totalUsers":    totalUsers,
				"totalProducts": len(products),
				"revenue":       revenue,
				"lowStockCount": len(lowStock),
			},
			"lowStock": lowStock,
		})
	}
}

func AdminListOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid pagination params"))
			return
		}

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("orders").CountDocuments(ctx, filter)
		if err != nil {
			fail(c, route, err)
			return
		}

		cursor, err := db.Collection("orders").Find(ctx, filter, findOptions)
		if err != nil {
			fail(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "total": total})
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateOrderStatus moves an order through the fulfillment state
// machine; edges outside the transition table are rejected.
func AdminUpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, route, apperr.NotFound("Order not found"))
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidStatus(req.Status) {
			fail(c, route, apperr.BadRequest("invalid status"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.NotFound("Order not found"))
				return
			}
			fail(c, route, err)
			return
		}

		if !models.CanTransition(order.Status, req.Status) {
			fail(c, route, apperr.BadRequest("cannot transition from "+order.Status+" to "+req.Status))
			return
		}

		// Guarded on the current status so a concurrent update cannot apply
		// a stale transition.
		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(ctx,
			bson.M{"_id": orderID, "status": order.Status},
			bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
			findOneAndUpdateReturnAfter(),
		).Decode(&updated)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.Conflict("order status changed concurrently"))
				return
			}
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": updated})
	}
}

func AdminListUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/users"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, findOptions)
		if err != nil {
			fail(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		// models.User hides credential fields from JSON, so the slice can be
		// serialized as-is.
		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
	}
}

type updateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func AdminUpdateUserRole(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/users/:id/role"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, route, apperr.NotFound("User not found"))
			return
		}

		var req updateUserRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidRole(req.Role) {
			fail(c, route, apperr.BadRequest("Invalid role"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOneAndUpdate(ctx,
			bson.M{"_id": userID},
			bson.M{"$set": bson.M{"role": req.Role, "updatedAt": time.Now()}},
			findOneAndUpdateReturnAfter(),
		).Decode(&user)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.NotFound("User not found"))
				return
			}
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

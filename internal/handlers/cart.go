package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/middleware"
	"luxe-backend/internal/models"
)

const maxCartQty = 99

// cartItem is the client-facing cart line: live product data at read time,
// not a snapshot.
type cartItem struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Price int64              `json:"price"`
	Image string             `json:"image"`
	Slug  string             `json:"slug"`
	Qty   int                `json:"qty"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty"`
}

type setCartQtyRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"min=0"`
}

// buildCartView resolves cart entries against the given products, dropping
// entries whose product no longer exists.
func buildCartView(entries []models.CartEntry, products map[primitive.ObjectID]models.Product) []cartItem {
	items := make([]cartItem, 0, len(entries))
	for _, entry := range entries {
		product, ok := products[entry.Product]
		if !ok {
			continue
		}
		items = append(items, cartItem{
			ID:    product.ID,
			Name:  product.Title,
			Price: product.Price,
			Image: product.FirstImage(),
			Slug:  product.Slug,
			Qty:   entry.Qty,
		})
	}
	return items
}

func loadCartView(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]cartItem, error) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, entry := range user.Cart {
		ids = append(ids, entry.Product)
	}
	if len(ids) == 0 {
		return []cartItem{}, nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	return buildCartView(user.Cart, byID), nil
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		items, err := loadCartView(ctx, db, user.ID)
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
	}
}

// AddToCart increments the quantity of an existing entry with an atomic
// $inc, or pushes a new one; concurrent adds never lose an update.
func AddToCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		qty := req.Qty
		if qty == 0 {
			qty = 1
		}
		if qty < 1 || qty > maxCartQty {
			fail(c, route, apperr.BadRequest("qty must be between 1 and 99"))
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid productId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("products").CountDocuments(ctx, bson.M{"_id": productID, "isActive": true})
		if err != nil {
			fail(c, route, err)
			return
		}
		if count == 0 {
			fail(c, route, apperr.NotFound("Product not found"))
			return
		}

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{"_id": user.ID, "cart.product": productID},
			bson.M{"$inc": bson.M{"cart.$.qty": qty}},
		)
		if err != nil {
			fail(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
				"$push": bson.M{"cart": models.CartEntry{Product: productID, Qty: qty}},
			})
			if err != nil {
				fail(c, route, err)
				return
			}
		}

		items, err := loadCartView(ctx, db, user.ID)
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
	}
}

// SetCartQuantity sets an entry's quantity with an atomic positional update;
// quantity zero removes the entry.
func SetCartQuantity(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var req setCartQtyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Qty > maxCartQty {
			fail(c, route, apperr.BadRequest("qty must be between 0 and 99"))
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid productId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.Qty == 0 {
			_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
				"$pull": bson.M{"cart": bson.M{"product": productID}},
			})
			if err != nil {
				fail(c, route, err)
				return
			}
		} else {
			res, err := db.Collection("users").UpdateOne(ctx,
				bson.M{"_id": user.ID, "cart.product": productID},
				bson.M{"$set": bson.M{"cart.$.qty": req.Qty}},
			)
			if err != nil {
				fail(c, route, err)
				return
			}
			if res.MatchedCount == 0 {
				fail(c, route, apperr.NotFound("Product not in cart"))
				return
			}
		}

		items, err := loadCartView(ctx, db, user.ID)
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
	}
}

// RemoveFromCart is idempotent; removing an absent entry is a no-op.
func RemoveFromCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/:productId"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid productId"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$pull": bson.M{"cart": bson.M{"product": productID}},
		})
		if err != nil {
			fail(c, route, err)
			return
		}

		items, err := loadCartView(ctx, db, user.ID)
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": items})
	}
}

func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{"cart": []models.CartEntry{}},
		})
		if err != nil {
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "cart": []cartItem{}})
	}
}

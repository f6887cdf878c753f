package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/cache"
	"luxe-backend/internal/models"
)

type productListResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int64            `json:"page"`
	Pages    int64            `json:"pages"`
}

// buildProductFilter combines the supplied filters with logical AND over the
// active catalog.
func buildProductFilter(search, category, badge, minPrice, maxPrice string) bson.M {
	filter := bson.M{"isActive": true}

	if category != "" {
		filter["categories"] = bson.M{"$in": []string{category}}
	}
	if badge != "" {
		filter["badge"] = badge
	}

	price := bson.M{}
	if minPrice != "" {
		if value, err := strconv.ParseInt(minPrice, 10, 64); err == nil {
			price["$gte"] = value
		}
	}
	if maxPrice != "" {
		if value, err := strconv.ParseInt(maxPrice, 10, 64); err == nil {
			price["$lte"] = value
		}
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if search != "" {
		filter["$text"] = bson.M{"$search": search}
	}

	return filter
}

// sortFor maps the public sort names onto index-backed orders; anything
// unknown falls back to featured-then-newest.
func sortFor(name string) bson.D {
	switch name {
	case "price-asc":
		return bson.D{{Key: "price", Value: 1}}
	case "price-desc":
		return bson.D{{Key: "price", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}}
	case "newest":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}
	}
}

// ListProducts serves the catalog listing behind the 5-minute cache. A hit
// returns the prior response unchanged; that staleness is accepted by
// design.
func ListProducts(db *mongo.Database, listCache *cache.ProductList) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		cacheKey := cache.Key(c.Request.URL.Query())
		if cached, ok := listCache.Get(cacheKey); ok {
			if response, ok := cached.(productListResponse); ok {
				c.JSON(http.StatusOK, response)
				return
			}
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid pagination params"))
			return
		}

		filter := buildProductFilter(
			strings.TrimSpace(c.Query("search")),
			strings.TrimSpace(c.Query("category")),
			strings.TrimSpace(c.Query("badge")),
			strings.TrimSpace(c.Query("minPrice")),
			strings.TrimSpace(c.Query("maxPrice")),
		)

		findOptions := options.Find().
			SetSort(sortFor(c.Query("sort"))).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			fail(c, route, err)
			return
		}

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			fail(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			fail(c, route, err)
			return
		}

		pages := total / limit
		if total%limit > 0 {
			pages++
		}

		response := productListResponse{
			Success:  true,
			Products: products,
			Total:    total,
			Page:     page,
			Pages:    pages,
		}
		listCache.Set(cacheKey, response)

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, response)
	}
}

func GetProductBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:slug"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{
			"slug":     c.Param("slug"),
			"isActive": true,
		}).Decode(&product)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.NotFound("Product not found"))
				return
			}
			fail(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

type productCreateRequest struct {
	Title          string   `json:"title" binding:"required"`
	Slug           string   `json:"slug" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	ShortDesc      string   `json:"shortDesc"`
	Images         []string `json:"images"`
	Price          int64    `json:"price" binding:"required,gt=0"`
	CompareAtPrice *int64   `json:"compareAtPrice"`
	Categories     []string `json:"categories"`
	Tags           []string `json:"tags"`
	SKU            string   `json:"sku"`
	Inventory      int      `json:"inventory"`
	Featured       bool     `json:"featured"`
	Badge          string   `json:"badge"`
}

type productUpdateRequest struct {
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Description    *string   `json:"description"`
	ShortDesc      *string   `json:"shortDesc"`
	Images         *[]string `json:"images"`
	Price          *int64    `json:"price"`
	CompareAtPrice *int64    `json:"compareAtPrice"`
	Categories     *[]string `json:"categories"`
	Tags           *[]string `json:"tags"`
	SKU            *string   `json:"sku"`
	Inventory      *int      `json:"inventory"`
	Featured       *bool     `json:"featured"`
	Badge          *string   `json:"badge"`
	Rating         *float64  `json:"rating"`
	IsActive       *bool     `json:"isActive"`
}

// CreateProduct is the admin create path; it bypasses the list cache and
// flushes it so the new product shows up within the TTL.
func CreateProduct(db *mongo.Database, listCache *cache.ProductList) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req productCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidBadge(req.Badge) {
			fail(c, route, apperr.BadRequest("invalid badge"))
			return
		}
		if req.Inventory < 0 {
			fail(c, route, apperr.BadRequest("inventory must not be negative"))
			return
		}

		now := time.Now()
		product := models.Product{
			Title:          strings.TrimSpace(req.Title),
			Slug:           strings.ToLower(strings.TrimSpace(req.Slug)),
			Description:    req.Description,
			ShortDesc:      req.ShortDesc,
			Images:         req.Images,
			Price:          req.Price,
			CompareAtPrice: req.CompareAtPrice,
			Categories:     req.Categories,
			Tags:           req.Tags,
			SKU:            req.SKU,
			Inventory:      req.Inventory,
			Featured:       req.Featured,
			Badge:          req.Badge,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				fail(c, route, apperr.Conflict("slug already exists"))
				return
			}
			fail(c, route, err)
			return
		}
		product.ID, _ = res.InsertedID.(primitive.ObjectID)

		listCache.Flush()

		log.Println("[PRODUCT] [INFO] product created:", product.Slug)
		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}

func UpdateProduct(db *mongo.Database, listCache *cache.ProductList) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid product id"))
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updates := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Slug != nil {
			updates["slug"] = strings.ToLower(strings.TrimSpace(*req.Slug))
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.ShortDesc != nil {
			updates["shortDesc"] = *req.ShortDesc
		}
		if req.Images != nil {
			updates["images"] = *req.Images
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				fail(c, route, apperr.BadRequest("price must be greater than zero"))
				return
			}
			updates["price"] = *req.Price
		}
		if req.CompareAtPrice != nil {
			updates["compareAtPrice"] = *req.CompareAtPrice
		}
		if req.Categories != nil {
			updates["categories"] = *req.Categories
		}
		if req.Tags != nil {
			updates["tags"] = *req.Tags
		}
		if req.SKU != nil {
			updates["sku"] = *req.SKU
		}
		if req.Inventory != nil {
			if *req.Inventory < 0 {
				fail(c, route, apperr.BadRequest("inventory must not be negative"))
				return
			}
			updates["inventory"] = *req.Inventory
		}
		if req.Featured != nil {
			updates["featured"] = *req.Featured
		}
		if req.Badge != nil {
			if !models.ValidBadge(*req.Badge) {
				fail(c, route, apperr.BadRequest("invalid badge"))
				return
			}
			updates["badge"] = *req.Badge
		}
		if req.Rating != nil {
			if *req.Rating < 0 || *req.Rating > 5 {
				fail(c, route, apperr.BadRequest("rating must be between 0 and 5"))
				return
			}
			updates["rating"] = *req.Rating
		}
		if req.IsActive != nil {
			updates["isActive"] = *req.IsActive
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(ctx,
			bson.M{"_id": productID},
			bson.M{"$set": updates},
			findOneAndUpdateReturnAfter(),
		).Decode(&product)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.NotFound("Product not found"))
				return
			}
			if mongo.IsDuplicateKeyError(err) {
				fail(c, route, apperr.Conflict("slug already exists"))
				return
			}
			fail(c, route, err)
			return
		}

		listCache.Flush()

		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// DeactivateProduct soft-deletes: the product drops out of listings but
// historical order snapshots keep referencing it.
func DeactivateProduct(db *mongo.Database, listCache *cache.ProductList) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, route, apperr.BadRequest("invalid product id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").UpdateByID(ctx, productID, bson.M{
			"$set": bson.M{"isActive": false, "updatedAt": time.Now()},
		})
		if err != nil {
			fail(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			fail(c, route, apperr.NotFound("Product not found"))
			return
		}

		listCache.Flush()

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deactivated"})
	}
}

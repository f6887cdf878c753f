package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/middleware"
	"luxe-backend/internal/models"
	"luxe-backend/internal/notify"
	"luxe-backend/internal/payments"
)

// taxRate is the fixed jurisdiction rate applied to every order subtotal.
const taxRate = 0.18

func orderTax(subtotal int64) int64 {
	return int64(math.Round(float64(subtotal) * taxRate))
}

// orderTotal intentionally does not subtract the coupon discount; the
// discount is recorded on the order but the charged total matches the
// documented formula. Whether that should change is an open product
// question.
func orderTotal(subtotal, shippingCost, tax int64) int64 {
	return subtotal + shippingCost + tax
}

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,min=1"`
}

type shippingAddressRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Country string `json:"country"`
}

type createOrderRequest struct {
	Items           []orderItemRequest      `json:"items" binding:"required"`
	ShippingAddress *shippingAddressRequest `json:"shippingAddress" binding:"required"`
	ShippingCost    int64                   `json:"shippingCost" binding:"min=0"`
	CouponCode      string                  `json:"couponCode"`
	Discount        int64                   `json:"discount" binding:"min=0"`
	PaymentMethod   string                  `json:"paymentMethod"`
}

// CreateOrder is the checkout orchestrator: it snapshots the requested items
// at their live catalog prices, computes totals, requests a payment intent
// and persists the order in a pending state.
func CreateOrder(db *mongo.Database, gateway *payments.Gateway, mailer notify.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if len(req.Items) == 0 {
			fail(c, route, apperr.BadRequest("Cart is empty"))
			return
		}
		if req.ShippingAddress == nil {
			fail(c, route, apperr.BadRequest("Shipping address required"))
			return
		}

		paymentMethod := req.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.PaymentMethodStripe
		}
		if paymentMethod != models.PaymentMethodStripe && paymentMethod != models.PaymentMethodCOD {
			fail(c, route, apperr.BadRequest("invalid payment method"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// Replays with the same idempotency key return the stored order
		// instead of creating and charging twice.
		idempotencyKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if idempotencyKey != "" {
			var existing models.Order
			err := db.Collection("orders").FindOne(ctx, bson.M{
				"userId":         user.ID,
				"idempotencyKey": idempotencyKey,
			}).Decode(&existing)
			if err == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "order": existing, "orderId": existing.ID.Hex()})
				return
			}
			if !errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, err)
				return
			}
		}

		// Item snapshots use the live catalog price, never client input.
		items := make([]models.OrderItem, 0, len(req.Items))
		var subtotal int64
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				fail(c, route, apperr.BadRequest("invalid productId"))
				return
			}

			var product models.Product
			if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					fail(c, route, apperr.NotFound("Product not found"))
					return
				}
				fail(c, route, err)
				return
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Title,
				Image:     product.FirstImage(),
				Price:     product.Price,
				Qty:       item.Qty,
			})
			subtotal += product.Price * int64(item.Qty)
		}

		tax := orderTax(subtotal)
		total := orderTotal(subtotal, req.ShippingCost, tax)

		var intent *payments.Intent
		var gatewayErr error
		if paymentMethod == models.PaymentMethodStripe && gateway.Configured() {
			intentCtx, intentCancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
			intent, gatewayErr = gateway.CreateIntent(intentCtx, total, user.ID.Hex())
			intentCancel()
			if gatewayErr != nil {
				log.Println("[ORDER] [ERROR] payment intent creation failed:", gatewayErr)
			}
		}

		country := req.ShippingAddress.Country
		if country == "" {
			country = "India"
		}

		now := time.Now()
		order := models.Order{
			UserID: user.ID,
			Items:  items,
			ShippingAddress: models.ShippingAddress{
				Name:    req.ShippingAddress.Name,
				Phone:   req.ShippingAddress.Phone,
				Street:  req.ShippingAddress.Street,
				City:    req.ShippingAddress.City,
				State:   req.ShippingAddress.State,
				Pincode: req.ShippingAddress.Pincode,
				Country: country,
			},
			PaymentMethod:  paymentMethod,
			PaymentStatus:  models.PaymentPending,
			Status:         models.StatusProcessing,
			Subtotal:       subtotal,
			ShippingCost:   req.ShippingCost,
			Tax:            tax,
			Discount:       req.Discount,
			Total:          total,
			CouponCode:     strings.ToUpper(strings.TrimSpace(req.CouponCode)),
			IdempotencyKey: idempotencyKey,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if intent != nil {
			order.PaymentIntentID = intent.ID
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			// A concurrent request with the same idempotency key won the
			// insert; return its order.
			if mongo.IsDuplicateKeyError(err) && idempotencyKey != "" {
				var existing models.Order
				if ferr := db.Collection("orders").FindOne(ctx, bson.M{
					"userId":         user.ID,
					"idempotencyKey": idempotencyKey,
				}).Decode(&existing); ferr == nil {
					c.JSON(http.StatusOK, gin.H{"success": true, "order": existing, "orderId": existing.ID.Hex()})
					return
				}
			}
			fail(c, route, err)
			return
		}
		order.ID, _ = res.InsertedID.(primitive.ObjectID)

		// The order exists either way; a gateway failure is surfaced so the
		// client knows payment setup needs a retry.
		if gatewayErr != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"message": "Payment setup failed. Please retry payment.",
				"orderId": order.ID.Hex(),
			})
			return
		}

		if err := mailer.Send(user.Email, "Order Confirmation - Luxe Store",
			fmt.Sprintf("Thank you for your order!\n\nOrder ID: %s\nTotal: %d\n\nWe will notify you when it ships.", order.ID.Hex(), total)); err != nil {
			log.Println("[MAIL] [ERROR] order confirmation failed:", err)
		}

		log.Println("[ORDER] [INFO] order created for user:", user.ID.Hex())
		response := gin.H{"success": true, "order": order, "orderId": order.ID.Hex()}
		if intent != nil {
			response["clientSecret"] = intent.ClientSecret
		}
		c.JSON(http.StatusCreated, response)
	}
}

func GetMyOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{"userId": user.ID}, findOptions)
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

		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GetMyOrder returns the same NotFound whether the order is missing or owned
// by someone else, so order existence cannot be probed.
func GetMyOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		user, _ := middleware.CurrentUser(c)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			fail(c, route, apperr.NotFound("Order not found"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID, "userId": user.ID}).Decode(&order)
		if err != nil {
			fail(c, route, apperr.NotFound("Order not found"))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

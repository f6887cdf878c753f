package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"luxe-backend/internal/apperr"
	"luxe-backend/internal/models"
)

type validateCouponRequest struct {
	Code      string `json:"code" binding:"required"`
	CartTotal int64  `json:"cartTotal" binding:"min=0"`
}

// ValidateCoupon is a read-only check: it computes the discount but does not
// touch the usage counter.
func ValidateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/coupons/validate"
		defer handlePanic(c, route)

		var req validateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		err := db.Collection("coupons").FindOne(ctx, bson.M{"code": code, "isActive": true}).Decode(&coupon)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				fail(c, route, apperr.NotFound("Invalid or inactive coupon code"))
				return
			}
			fail(c, route, err)
			return
		}

		if coupon.Expired(time.Now()) {
			fail(c, route, apperr.BadRequest("Coupon has expired"))
			return
		}
		if coupon.LimitReached() {
			fail(c, route, apperr.BadRequest("Coupon usage limit reached"))
			return
		}
		if req.CartTotal < coupon.MinPurchase {
			fail(c, route, apperr.BadRequest(fmt.Sprintf("Minimum purchase of %d required", coupon.MinPurchase)))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"coupon": gin.H{
				"code":           coupon.Code,
				"discountAmount": coupon.Discount(req.CartTotal),
			},
		})
	}
}

package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"luxe-backend/internal/models"
	"luxe-backend/internal/payments"
)

// reconcileUpdate maps a verified gateway event type onto the order update it
// implies. Unhandled event types produce no update and are acknowledged.
func reconcileUpdate(eventType string, now time.Time) (bson.M, bool) {
	switch eventType {
	case payments.EventPaymentSucceeded:
		return bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentPaid,
			"status":        models.StatusConfirmed,
			"updatedAt":     now,
		}}, true
	case payments.EventPaymentFailed:
		return bson.M{"$set": bson.M{
			"paymentStatus": models.PaymentFailed,
			"updatedAt":     now,
		}}, true
	default:
		return nil, false
	}
}

// PaymentWebhook consumes asynchronous gateway events. It reads the raw body
// because signature verification covers the exact bytes Stripe sent. Once a
// signature verifies (or verification is disabled) the event is always
// acknowledged; gateway retry semantics depend on that.
func PaymentWebhook(db *mongo.Database, gateway *payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/webhook/payment"
		defer handlePanic(c, route)

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unreadable body"})
			return
		}

		if !gateway.VerifiesEvents() {
			// Degraded sandbox mode: without a webhook secret there is no way
			// to authenticate events.
			log.Println("[WEBHOOK] [WARN] STRIPE_WEBHOOK_SECRET not set, skipping signature verification")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		event, err := gateway.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] signature verification failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Webhook signature verification failed"})
			return
		}

		update, ok := reconcileUpdate(string(event.Type), time.Now())
		if !ok {
			log.Println("[WEBHOOK] [INFO] unhandled event type:", event.Type)
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		intentID, err := payments.IntentID(event)
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] event payload decode failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "malformed event payload"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		// An unknown intent id is a no-op: the event may belong to an order
		// outside this system's visibility.
		res, err := db.Collection("orders").UpdateOne(ctx, bson.M{"paymentIntentId": intentID}, update)
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] order update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Webhook handler error"})
			return
		}

		if res.MatchedCount == 0 {
			log.Println("[WEBHOOK] [INFO] no order for intent:", intentID)
		} else {
			log.Printf("[WEBHOOK] [INFO] %s reconciled for intent: %s", event.Type, intentID)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

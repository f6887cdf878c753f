package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"luxe-backend/internal/models"
	"luxe-backend/internal/payments"
)

func TestReconcileUpdate(t *testing.T) {
	now := time.Now()

	update, ok := reconcileUpdate(payments.EventPaymentSucceeded, now)
	if !ok {
		t.Fatal("payment success event produced no update")
	}
	set := update["$set"].(bson.M)
	if set["paymentStatus"] != models.PaymentPaid {
		t.Errorf("paymentStatus = %v, want %q", set["paymentStatus"], models.PaymentPaid)
	}
	if set["status"] != models.StatusConfirmed {
		t.Errorf("status = %v, want %q", set["status"], models.StatusConfirmed)
	}

	update, ok = reconcileUpdate(payments.EventPaymentFailed, now)
	if !ok {
		t.Fatal("payment failure event produced no update")
	}
	set = update["$set"].(bson.M)
	if set["paymentStatus"] != models.PaymentFailed {
		t.Errorf("paymentStatus = %v, want %q", set["paymentStatus"], models.PaymentFailed)
	}
	if _, exists := set["status"]; exists {
		t.Error("payment failure must not touch fulfillment status")
	}

	for _, eventType := range []string{"charge.refunded", "customer.created", ""} {
		if _, ok := reconcileUpdate(eventType, now); ok {
			t.Errorf("event %q unexpectedly produced an update", eventType)
		}
	}
}

package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
)

// orderSet builds the $set document for the fields present on patch.
func orderSet(patch etorder.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.PaymentMethod != nil {
		set["paymentMethod"] = string(*patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil {
		set["paymentStatus"] = string(*patch.PaymentStatus)
	}
	if patch.PaymentID != nil {
		set["paymentId"] = *patch.PaymentID
	}
	if patch.NotifiedAt != nil {
		set["notifiedAt"] = *patch.NotifiedAt
	}
	return set
}

func paymentSet(patch etpayment.Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.TransactionID != nil {
		set["transactionId"] = *patch.TransactionID
	}
	if patch.PaidAt != nil {
		set["paidAt"] = *patch.PaidAt
	}
	return set
}

package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/infra/persistence/storetest"
	"pickup/pkg/clock"
)

func TestOrderSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	status := etorder.StatusReady
	paymentID := "p-1"

	set := orderSet(etorder.Patch{Status: &status, PaymentID: &paymentID, NotifiedAt: &now}, now)

	assert.Equal(t, "ready", set["status"])
	assert.Equal(t, "p-1", set["paymentId"])
	assert.Equal(t, now, set["notifiedAt"])
	assert.Equal(t, now, set["updatedAt"])
	assert.NotContains(t, set, "paymentMethod")
	assert.NotContains(t, set, "paymentStatus")
}

func TestPaymentSet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	set := paymentSet(etpayment.Completed(now), now)
	assert.Equal(t, "completed", set["status"])
	assert.Equal(t, now, set["paidAt"])
	assert.NotContains(t, set, "transactionId")
}

// Needs a running server, e.g. PICKUP_TEST_MONGO_URI=mongodb://localhost:27017.
func TestMongoStore_Contract(t *testing.T) {
	uri := os.Getenv("PICKUP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PICKUP_TEST_MONGO_URI not set")
	}

	storetest.Run(t, func(t *testing.T) storetest.Repos {
		ctx := context.Background()
		client, err := Connect(ctx, Config{URI: uri})
		require.NoError(t, err)

		dbName := fmt.Sprintf("pickup_test_%d", time.Now().UnixNano())
		s := New(client, dbName, clock.New(time.UTC))
		require.NoError(t, s.EnsureIndexes(ctx))
		t.Cleanup(func() {
			_ = client.Database(dbName).Drop(context.Background())
			_ = s.Close()
		})
		return storetest.Repos{Orders: s.Orders(), Payments: s.Payments(), Counter: s.Counter()}
	})
}

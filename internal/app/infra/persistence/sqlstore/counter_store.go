package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/internal/app/infra/persistence/document"
)

var _ rpcounter.CounterRepository = (*CounterStore)(nil)

// CounterStore implements rpcounter.CounterRepository on sequence_counters.
type CounterStore struct {
	*Store
}

// Update locks the counter row (SELECT ... FOR UPDATE) for the length of the transaction.
func (s *CounterStore) Update(ctx context.Context, fn rpcounter.MutateFunc) (*etcounter.SequenceCounter, error) {
	var counter *etcounter.SequenceCounter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// seed the row so there is always something to lock
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&CounterPO{Name: document.CounterID}).Error; err != nil {
			return err
		}

		var po CounterPO
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", document.CounterID).First(&po).Error; err != nil {
			return err
		}

		c := toCounter(&po)
		if err := fn(c); err != nil {
			return err
		}
		c.Version++

		result := tx.Model(&CounterPO{}).
			Where("name = ? AND version = ?", document.CounterID, po.Version).
			Updates(map[string]interface{}{
				"total_orders":       c.TotalOrders,
				"daily_pickup_count": c.DailyPickupCount,
				"last_pickup_date":   c.LastPickupDate,
				"version":            c.Version,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("counter changed concurrently")
		}
		counter = c
		return nil
	})
	if err != nil {
		return nil, dbError("update counter", err, nil)
	}

	s.written(ctx, document.CollectionCounters)
	return counter, nil
}

func (s *CounterStore) Get(ctx context.Context) (*etcounter.SequenceCounter, error) {
	var po CounterPO
	err := s.db.WithContext(ctx).Where("name = ?", document.CounterID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &etcounter.SequenceCounter{}, nil
	}
	if err != nil {
		return nil, dbError("get counter", err, nil)
	}
	return toCounter(&po), nil
}

func toCounter(po *CounterPO) *etcounter.SequenceCounter {
	return &etcounter.SequenceCounter{
		TotalOrders:      po.TotalOrders,
		DailyPickupCount: po.DailyPickupCount,
		LastPickupDate:   po.LastPickupDate,
		Version:          po.Version,
	}
}

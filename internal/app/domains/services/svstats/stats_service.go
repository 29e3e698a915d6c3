package svstats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/pkg/clock"
)

// OrderStats is the dashboard summary for today and the current month.
type OrderStats struct {
	TodayOrders  int
	TodayRevenue decimal.Decimal
	MonthOrders  int
	MonthRevenue decimal.Decimal
	TotalOrders  int
}

// AdminStats is the back office summary.
type AdminStats struct {
	OrderStats
	ByStatus          map[etorder.Status]int
	ActiveOrders      int
	PaidOrders        int
	PendingPayments   int
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
}

// StatsService derives statistics from the stores. Revenue only counts paid orders.
type StatsService struct {
	orderRepo   rporder.OrderRepository
	paymentRepo rppayment.PaymentRepository
	clock       clock.Clock
}

// NewStatsService creates a stats service.
func NewStatsService(orderRepo rporder.OrderRepository, paymentRepo rppayment.PaymentRepository, clk clock.Clock) *StatsService {
	return &StatsService{orderRepo: orderRepo, paymentRepo: paymentRepo, clock: clk}
}

// GetOrderStats counts orders and revenue for today and this month.
func (s *StatsService) GetOrderStats(ctx context.Context) (*OrderStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders failed: %w", err)
	}
	stats := s.orderStats(orders)
	return &stats, nil
}

// GetAdminStats adds the status breakdown, pending payments and average order value.
func (s *StatsService) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders failed: %w", err)
	}
	payments, err := s.paymentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments failed: %w", err)
	}

	stats := &AdminStats{
		OrderStats:        s.orderStats(orders),
		ByStatus:          make(map[etorder.Status]int, 5),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, o := range orders {
		stats.ByStatus[o.Status]++
		if o.Status.Active() {
			stats.ActiveOrders++
		}
		if o.IsPaid() {
			stats.PaidOrders++
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		}
	}
	for _, p := range payments {
		if p.Status == etpayment.StatusPending || p.Status == etpayment.StatusProcessing {
			stats.PendingPayments++
		}
	}
	if stats.PaidOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.PaidOrders))).
			Round(2)
	}
	return stats, nil
}

func (s *StatsService) orderStats(orders []*etorder.Order) OrderStats {
	now := s.clock.Now()
	today := now.Format(clock.DateLayout)
	month := now.Format("2006-01")

	stats := OrderStats{
		TodayRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
		TotalOrders:  len(orders),
	}
	for _, o := range orders {
		created := o.CreatedAt.In(now.Location())
		if created.Format("2006-01") != month {
			continue
		}
		isToday := created.Format(clock.DateLayout) == today

		stats.MonthOrders++
		if isToday {
			stats.TodayOrders++
		}
		if !o.IsPaid() {
			continue
		}
		stats.MonthRevenue = stats.MonthRevenue.Add(o.TotalAmount)
		if isToday {
			stats.TodayRevenue = stats.TodayRevenue.Add(o.TotalAmount)
		}
	}
	return stats
}

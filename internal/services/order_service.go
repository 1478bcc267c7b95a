package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mica-backend/internal/cache"
	"mica-backend/internal/metrics"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/timeutil"
	"mica-backend/internal/units"
)

type OrderService struct {
	orderRepo    *repositories.OrderRepository
	buyerRepo    *repositories.BuyerRepository
	categoryRepo *repositories.CategoryRepository
	stockRepo    *repositories.StockRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewOrderService(
	orderRepo *repositories.OrderRepository,
	buyerRepo *repositories.BuyerRepository,
	categoryRepo *repositories.CategoryRepository,
	stockRepo *repositories.StockRepository,
	activityRepo *repositories.ActivityLogRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		buyerRepo:    buyerRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		activityRepo: activityRepo,
	}
}

// CreateOrder fulfills a sale: finished stock for every item is deducted in
// one atomic apply before the order row is written. If any bucket lacks
// stock the whole order is rejected and nothing changes.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	order, err := s.buildOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	deltas := BuildOrderDeltas(order.Items)
	if err := s.stockRepo.ApplyDeltas(ctx, deltas); err != nil {
		var stockErr *models.StockError
		if errors.As(err, &stockErr) {
			metrics.StockRejections.Inc()
		}
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Stock is already gone; put it back so a failed insert does not
		// leak a deduction.
		s.recredit(ctx, order.Items)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	metrics.OrdersFulfilled.Inc()

	logActivity(ctx, s.activityRepo, "order", "create",
		fmt.Sprintf("Order fulfilled: %d items, %.2f total", len(order.Items), order.TotalAmount),
		&order.ID, nil)

	cache.InvalidateOrderCaches(ctx)
	return order, nil
}

func (s *OrderService) buildOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	date := req.OrderDate
	if date == "" {
		date = timeutil.Today()
	} else if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid order date %q: %w", date, err)
	}

	if req.BuyerID != nil {
		if _, err := s.buyerRepo.Get(ctx, *req.BuyerID); err != nil {
			return nil, fmt.Errorf("buyer %d does not exist", *req.BuyerID)
		}
	}

	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order needs at least one item")
	}

	subs, err := s.categoryRepo.ListSubProducts(ctx)
	if err != nil {
		return nil, err
	}
	subIDs := make(map[int]bool, len(subs))
	for _, sp := range subs {
		subIDs[sp.ID] = true
	}

	var items []models.OrderItem
	var total float64
	for _, in := range req.Items {
		if !subIDs[in.SubProductID] {
			return nil, fmt.Errorf("sub-product %d does not exist", in.SubProductID)
		}
		kg := units.ToCanonicalKg(in.Quantity.Value, in.Quantity.Unit)
		if kg <= 0 {
			return nil, fmt.Errorf("quantity must be positive for sub-product %d", in.SubProductID)
		}
		amount := kg * in.Rate
		items = append(items, models.OrderItem{
			SubProductID: in.SubProductID,
			QuantityKg:   kg,
			Rate:         in.Rate,
			Amount:       amount,
		})
		total += amount
	}

	return &models.Order{
		BuyerID:     req.BuyerID,
		Status:      models.OrderStatusCompleted,
		TotalAmount: total,
		Notes:       req.Notes,
		OrderDate:   date,
		Items:       items,
	}, nil
}

// CancelOrder flips a completed order to cancelled and re-credits its
// finished stock.
func (s *OrderService) CancelOrder(ctx context.Context, id int) (*models.Order, error) {
	order, err := s.orderRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled {
		return nil, fmt.Errorf("order %d is already cancelled", id)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	s.recredit(ctx, order.Items)
	order.Status = models.OrderStatusCancelled

	logActivity(ctx, s.activityRepo, "order", "cancel",
		fmt.Sprintf("Order %d cancelled, stock re-credited", id), &id, nil)

	cache.InvalidateOrderCaches(ctx)
	return order, nil
}

// recredit reverses an order's deductions. Credits cannot violate
// non-negativity, so a failure here is an infrastructure error; it is
// retried once and then logged.
func (s *OrderService) recredit(ctx context.Context, items []models.OrderItem) {
	credits := make([]models.StockDelta, 0, len(items))
	for _, d := range BuildOrderDeltas(items) {
		credits = append(credits, models.StockDelta{Key: d.Key, Delta: -d.Delta})
	}
	if err := s.stockRepo.ApplyDeltas(ctx, credits); err != nil {
		metrics.LedgerRetries.Inc()
		if retryErr := s.stockRepo.ApplyDeltas(ctx, credits); retryErr != nil {
			log.Printf("[Order] stock re-credit failed after retry: %v", retryErr)
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.orderRepo.Get(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.List(ctx, limit, offset)
}

// BuildOrderDeltas produces the negative ledger adjustments for an order's
// items, merged per sub-product so one bucket sees a single combined
// deduction.
func BuildOrderDeltas(items []models.OrderItem) []models.StockDelta {
	merged := make(map[string]float64)
	for _, item := range items {
		merged[models.FinishedKey(item.SubProductID)] -= item.QuantityKg
	}
	return sortedDeltas(merged)
}

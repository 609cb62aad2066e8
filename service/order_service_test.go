package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cafebackend/apperr"
	"cafebackend/logger"
	"cafebackend/models"

	"github.com/shopspring/decimal"
)

func newOrderService(t *testing.T) (*OrderService, *fakeOrderStore, uint) {
	t.Helper()
	menus := newFakeMenuStore()
	item := &models.MenuItem{Name: "Kopi Susu", Price: decimal.NewFromInt(25000), Category: "coffee"}
	if err := menus.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	store := newFakeOrderStore(menus)
	return NewOrderService(store, logger.Discard()), store, item.ID
}

func validOrder(menuID uint) CreateOrderInput {
	qty := 2
	return CreateOrderInput{
		MenuID:       &menuID,
		CustomerName: "Budi",
		Quantity:     &qty,
		TotalAmount:  decPtr(50000),
		Note:         "less sugar",
	}
}

func TestOrderRoundTrip(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, validOrder(menuID))
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Quantity != 2 || got.PaymentStatus != models.PaymentUnpaid || got.CustomerName != "Budi" {
		t.Errorf("order = %+v", got)
	}
	if got.OrderNumber() != models.FormatOrderNumber(order.ID) || len(got.OrderNumber()) != 9 {
		t.Errorf("order number = %q", got.OrderNumber())
	}
}

func TestOrderTotalIsComputedServerSide(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	in := validOrder(menuID)
	in.TotalAmount = decPtr(1)

	order, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("total = %s, want 50000", order.TotalAmount)
	}
}

func TestOrderCreateValidation(t *testing.T) {
	zero := 0
	var noMenu uint
	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"missing menu", func(in *CreateOrderInput) { in.MenuID = nil }},
		{"zero menu id", func(in *CreateOrderInput) { in.MenuID = &noMenu }},
		{"blank name", func(in *CreateOrderInput) { in.CustomerName = "  " }},
		{"missing quantity", func(in *CreateOrderInput) { in.Quantity = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Quantity = &zero }},
		{"quantity over limit", func(in *CreateOrderInput) { q := models.MaxOrderQuantity + 1; in.Quantity = &q }},
		{"missing total", func(in *CreateOrderInput) { in.TotalAmount = nil }},
		{"zero total", func(in *CreateOrderInput) { in.TotalAmount = decPtr(0) }},
		{"unknown menu", func(in *CreateOrderInput) { id := uint(77); in.MenuID = &id }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, menuID := newOrderService(t)
			in := validOrder(menuID)
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
			if len(store.orders) != 0 {
				t.Error("invalid order stored")
			}
		})
	}
}

func TestOrderTotalOverflowIsValidationError(t *testing.T) {
	menus := newFakeMenuStore()
	item := &models.MenuItem{Name: "Kopi Emas", Price: models.MaxAmount, Category: "coffee"}
	if err := menus.Create(context.Background(), item); err != nil {
		t.Fatal(err)
	}
	store := newFakeOrderStore(menus)
	svc := NewOrderService(store, logger.Discard())

	in := validOrder(item.ID)
	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, apperr.ErrValidation) || apperr.StatusCode(err) != 400 {
		t.Fatalf("err = %v, want 400 ErrValidation", err)
	}
	if len(store.orders) != 0 {
		t.Error("overflowing order stored")
	}
}

func TestOrderPaymentTransitions(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	ctx := context.Background()
	order, _ := svc.Create(ctx, validOrder(menuID))

	if err := svc.UpdatePaymentStatus(ctx, order.ID, "refunded"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("invalid status err = %v", err)
	}
	if got, _ := svc.GetByID(ctx, order.ID); got.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("status changed by rejected update: %s", got.PaymentStatus)
	}

	if err := svc.UpdatePaymentStatus(ctx, order.ID, "paid"); err != nil {
		t.Fatal(err)
	}
	if err := svc.UpdatePaymentStatus(ctx, order.ID, "paid"); err != nil {
		t.Errorf("same-state update should be a no-op: %v", err)
	}
	if err := svc.UpdatePaymentStatus(ctx, order.ID, "unpaid"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("paid -> unpaid err = %v", err)
	}
	if got, _ := svc.GetByID(ctx, order.ID); got.PaymentStatus != models.PaymentPaid {
		t.Errorf("status = %s, want paid", got.PaymentStatus)
	}

	if err := svc.UpdatePaymentStatus(ctx, 999, "paid"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing order err = %v", err)
	}
}

func TestOrderDelete(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	ctx := context.Background()
	order, _ := svc.Create(ctx, validOrder(menuID))

	if _, err := svc.Delete(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Delete(ctx, order.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestOrderFilterByDate(t *testing.T) {
	svc, store, menuID := newOrderService(t)
	ctx := context.Background()
	_, _ = svc.Create(ctx, validOrder(menuID))

	all, err := svc.FilterByDate(ctx, " ")
	if err != nil || len(all) != 1 || len(store.byDate) != 0 {
		t.Errorf("blank date = %v, %v (by date calls %v)", all, err, store.byDate)
	}

	today := time.Now().Format(DateLayout)
	got, err := svc.FilterByDate(ctx, today)
	if err != nil || len(got) != 1 {
		t.Errorf("FilterByDate(today) = %v, %v", got, err)
	}

	for _, bad := range []string{"14-10-2026", "2026/10/14", "yesterday", "2026-13-01"} {
		if _, err := svc.FilterByDate(ctx, bad); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("FilterByDate(%q) err = %v", bad, err)
		}
	}
}

func TestOrderStatsCountsUnpaidRevenue(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	ctx := context.Background()
	first, _ := svc.Create(ctx, validOrder(menuID))
	_, _ = svc.Create(ctx, validOrder(menuID))
	_ = svc.UpdatePaymentStatus(ctx, first.ID, "paid")

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalOrders != 2 || !st.TotalRevenue.Equal(decimal.NewFromInt(100000)) || !st.PaidRevenue.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("stats = %+v", st)
	}
}

func TestConcurrentOrdersGetDistinctIDs(t *testing.T) {
	svc, _, menuID := newOrderService(t)
	const n = 25
	ids := make(chan uint, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := svc.Create(context.Background(), validOrder(menuID))
			if err != nil {
				t.Error(err)
				return
			}
			ids <- o.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate order id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("got %d ids, want %d", len(seen), n)
	}
}

package service

import (
	"errors"
	"testing"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

var validCustomer = CustomerInfo{Name: "Ann Lee", Email: "ann@example.com", Address: "1 Main St"}

func TestCheckoutCreatesOrdersAndDecrementsStock(t *testing.T) {
	env := newServiceTestEnv(t)
	stub := &queueStub{enabled: true}
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, stub)
	shirt := env.createProduct(t, "Classic T-Shirt", "Shirts", "15.99", 10)

	if _, err := cartSvc.AddItem("s1", shirt.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err := checkoutSvc.Checkout("s1", CustomerInfo{Name: "  Ann Lee ", Email: "ann@example.com", Address: " 1 Main St "})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Total.String() != "31.98" {
		t.Fatalf("expected total 31.98, got %s", result.Total.String())
	}
	if len(result.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(result.Orders))
	}
	order := result.Orders[0]
	if order.ID == 0 || order.ProductID != shirt.ID || order.Quantity != 2 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.CustomerName != "Ann Lee" || order.CustomerAddress != "1 Main St" {
		t.Fatalf("customer info should be trimmed: %+v", order)
	}
	if order.UnitPrice.String() != "15.99" || order.Subtotal.String() != "31.98" {
		t.Fatalf("unexpected price snapshot: %+v", order)
	}
	if len(result.Stock) != 1 || result.Stock[0].Stock != 8 {
		t.Fatalf("expected updated stock 8, got %+v", result.Stock)
	}
	if env.stockOf(t, shirt.ID) != 8 {
		t.Fatalf("stock should be persisted as 8")
	}

	view, err := cartSvc.Get("s1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("cart should be cleared after checkout")
	}
	if len(stub.checkouts) != 1 || stub.checkouts[0].CheckoutNo != result.CheckoutNo || stub.checkouts[0].OrderCount != 1 {
		t.Fatalf("unexpected enqueued payloads: %+v", stub.checkouts)
	}
}

func TestCheckoutKeepsCartOrderAcrossOrders(t *testing.T) {
	env := newServiceTestEnv(t)
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, nil)
	boots := env.createProduct(t, "Brown Chelsea Boots", "Shoes", "74.99", 5)
	pants := env.createProduct(t, "Cargo Black Pants", "Pants", "34.99", 5)

	if _, err := cartSvc.AddItem("s1", pants.ID, 1); err != nil {
		t.Fatalf("add pants failed: %v", err)
	}
	if _, err := cartSvc.AddItem("s1", boots.ID, 2); err != nil {
		t.Fatalf("add boots failed: %v", err)
	}

	result, err := checkoutSvc.Checkout("s1", validCustomer)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(result.Orders) != 2 || result.Orders[0].ProductID != pants.ID || result.Orders[1].ProductID != boots.ID {
		t.Fatalf("orders should follow cart order: %+v", result.Orders)
	}
	if result.Orders[0].CheckoutNo != result.CheckoutNo || result.Orders[1].CheckoutNo != result.CheckoutNo {
		t.Fatalf("orders should share checkout number")
	}
	if result.Total.String() != "184.97" {
		t.Fatalf("unexpected total: %s", result.Total.String())
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	env := newServiceTestEnv(t)
	stub := &queueStub{enabled: true}
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, stub)

	if _, err := checkoutSvc.Checkout("s1", validCustomer); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := checkoutSvc.Checkout("s1", CustomerInfo{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart should be reported before customer validation, got %v", err)
	}
	if _, err := checkoutSvc.Preview("s1"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("preview should refuse empty cart, got %v", err)
	}
	if env.orderCount(t) != 0 || len(stub.checkouts) != 0 {
		t.Fatalf("empty cart must not write anything")
	}
}

func TestCheckoutValidationErrorWritesNothing(t *testing.T) {
	env := newServiceTestEnv(t)
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, nil)
	shirt := env.createProduct(t, "White T-Shirt", "Shirts", "18.99", 5)
	if _, err := cartSvc.AddItem("s1", shirt.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	invalid := []CustomerInfo{
		{Name: " ", Email: "ann@example.com", Address: "1 Main St"},
		{Name: "Ann", Email: "", Address: "1 Main St"},
		{Name: "Ann", Email: "ann@example.com", Address: "\t"},
		{Name: "Ann", Email: "not-an-email", Address: "1 Main St"},
		{Name: "Ann", Email: "Ann <ann@example.com>", Address: "1 Main St"},
	}
	for _, info := range invalid {
		if _, err := checkoutSvc.Checkout("s1", info); !errors.Is(err, ErrCustomerInfoInvalid) {
			t.Fatalf("expected ErrCustomerInfoInvalid for %+v, got %v", info, err)
		}
	}

	if env.orderCount(t) != 0 {
		t.Fatalf("validation failure must not create orders")
	}
	if env.stockOf(t, shirt.ID) != 5 {
		t.Fatalf("validation failure must not touch stock")
	}
	view, err := cartSvc.Get("s1")
	if err != nil || len(view.Items) != 1 {
		t.Fatalf("cart should be intact: %+v err=%v", view, err)
	}
}

func TestCheckoutRollsBackWhenProductVanished(t *testing.T) {
	env := newServiceTestEnv(t)
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, nil)
	kept := env.createProduct(t, "Airforce Shoes", "Shoes", "64.99", 5)
	removed := env.createProduct(t, "Print T-shirt", "Shirts", "22.67", 5)

	if _, err := cartSvc.AddItem("s1", kept.ID, 1); err != nil {
		t.Fatalf("add kept failed: %v", err)
	}
	if _, err := cartSvc.AddItem("s1", removed.ID, 1); err != nil {
		t.Fatalf("add removed failed: %v", err)
	}
	if err := env.productRepo.Delete(removed.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := checkoutSvc.Checkout("s1", validCustomer); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected ErrProductNotAvailable, got %v", err)
	}
	if env.stockOf(t, kept.ID) != 5 {
		t.Fatalf("stock decrement should be rolled back")
	}
	if env.orderCount(t) != 0 {
		t.Fatalf("orders should be rolled back")
	}
	view, err := cartSvc.Get("s1")
	if err != nil || len(view.Items) != 2 {
		t.Fatalf("cart should survive an aborted checkout: %+v err=%v", view, err)
	}
}

func TestCheckoutAllowsNegativeStock(t *testing.T) {
	env := newServiceTestEnv(t)
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, nil)
	product := env.createProduct(t, "Leather Shoes", "Shoes", "84.99", 1)

	for _, session := range []string{"s1", "s2"} {
		if _, err := cartSvc.AddItem(session, product.ID, 1); err != nil {
			t.Fatalf("add for %s failed: %v", session, err)
		}
	}
	for _, session := range []string{"s1", "s2"} {
		if _, err := checkoutSvc.Checkout(session, validCustomer); err != nil {
			t.Fatalf("checkout for %s failed: %v", session, err)
		}
	}
	if got := env.stockOf(t, product.ID); got != -1 {
		t.Fatalf("expected stock -1 without floor guard, got %d", got)
	}
}

func TestCheckoutEnqueueFailureDoesNotFailCheckout(t *testing.T) {
	env := newServiceTestEnv(t)
	stub := &queueStub{enabled: true, err: errors.New("redis down")}
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	checkoutSvc := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, stub)
	product := env.createProduct(t, "Black Jeans", "Jeans", "33.90", 2)
	if _, err := cartSvc.AddItem("s1", product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	result, err := checkoutSvc.Checkout("s1", validCustomer)
	if err != nil {
		t.Fatalf("checkout should succeed despite queue failure: %v", err)
	}
	if len(result.Orders) != 1 || len(stub.checkouts) != 1 {
		t.Fatalf("unexpected result: %+v enqueued=%d", result, len(stub.checkouts))
	}
}

func TestValidateCustomerInfoTrims(t *testing.T) {
	info, err := ValidateCustomerInfo(CustomerInfo{Name: " Bo ", Email: " bo@example.com ", Address: " Road 1 "})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if info != (CustomerInfo{Name: "Bo", Email: "bo@example.com", Address: "Road 1"}) {
		t.Fatalf("unexpected normalized info: %+v", info)
	}
}

func TestCartTotalIsExact(t *testing.T) {
	items := []models.CartItem{
		{Price: models.MustMoney("0.10"), Quantity: 3},
		{Price: models.MustMoney("22.99"), Quantity: 1},
	}
	if got := CartTotal(items).String(); got != "23.29" {
		t.Fatalf("expected 23.29, got %s", got)
	}
}

// racingCartRepo 在第一次读取购物车后执行一次回调，模拟同一会话的重复提交
type racingCartRepo struct {
	repository.CartRepository
	afterList func()
}

func (r *racingCartRepo) ListBySession(sessionID string) ([]models.CartItem, error) {
	items, err := r.CartRepository.ListBySession(sessionID)
	if hook := r.afterList; hook != nil {
		r.afterList = nil
		hook()
	}
	return items, err
}

func TestCheckoutDoubleSubmitConvertsCartOnce(t *testing.T) {
	env := newServiceTestEnv(t)
	cartSvc := NewCartService(env.cartRepo, env.productRepo)
	shirt := env.createProduct(t, "Classic T-Shirt", "Shirts", "15.99", 10)
	if _, err := cartSvc.AddItem("s1", shirt.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	first := NewCheckoutService(env.cartRepo, env.productRepo, env.orderRepo, nil)
	racing := &racingCartRepo{CartRepository: env.cartRepo}
	racing.afterList = func() {
		if _, err := first.Checkout("s1", validCustomer); err != nil {
			t.Fatalf("first checkout failed: %v", err)
		}
	}
	second := NewCheckoutService(racing, env.productRepo, env.orderRepo, nil)

	if _, err := second.Checkout("s1", validCustomer); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("second submit should see an empty cart, got %v", err)
	}
	if got := env.orderCount(t); got != 1 {
		t.Fatalf("expected exactly one order, got %d", got)
	}
	if got := env.stockOf(t, shirt.ID); got != 8 {
		t.Fatalf("stock should be decremented once to 8, got %d", got)
	}
}

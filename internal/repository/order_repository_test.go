package repository

import (
	"testing"

	"github.com/storefront-next/internal/models"
)

func TestOrderRepositoryBatchAndQueries(t *testing.T) {
	repo := NewOrderRepository(openRepositoryTestDB(t))
	orders := []models.Order{
		{CheckoutNo: "C1", ProductID: 1, Quantity: 2, UnitPrice: models.MustMoney("15.99"), Subtotal: models.MustMoney("31.98"), CustomerName: "Ann", CustomerEmail: "ann@example.com", CustomerAddress: "1 Main St"},
		{CheckoutNo: "C1", ProductID: 2, Quantity: 1, UnitPrice: models.MustMoney("39.99"), Subtotal: models.MustMoney("39.99"), CustomerName: "Ann", CustomerEmail: "ann@example.com", CustomerAddress: "1 Main St"},
		{CheckoutNo: "C2", ProductID: 2, Quantity: 1, UnitPrice: models.MustMoney("39.99"), Subtotal: models.MustMoney("39.99"), CustomerName: "Bob", CustomerEmail: "bob@example.com", CustomerAddress: "2 Side St"},
	}
	if err := repo.CreateBatch(orders); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	if orders[0].ID == 0 || orders[2].ID == 0 {
		t.Fatalf("ids should be populated: %+v", orders)
	}

	byCheckout, err := repo.ListByCheckoutNo("C1")
	if err != nil {
		t.Fatalf("list by checkout failed: %v", err)
	}
	if len(byCheckout) != 2 || byCheckout[0].ProductID != 1 {
		t.Fatalf("unexpected checkout orders: %+v", byCheckout)
	}

	list, total, err := repo.ListAdmin(OrderListFilter{CustomerEmail: "BOB@", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if total != 1 || list[0].CustomerName != "Bob" {
		t.Fatalf("unexpected admin list: total=%d %+v", total, list)
	}

	list, total, err = repo.ListAdmin(OrderListFilter{ProductID: 2})
	if err != nil {
		t.Fatalf("admin list by product failed: %v", err)
	}
	if total != 2 || list[0].CheckoutNo != "C2" {
		t.Fatalf("expected newest first: %+v", list)
	}

	got, err := repo.GetByID(orders[1].ID)
	if err != nil || got == nil || got.Subtotal.String() != "39.99" {
		t.Fatalf("get by id failed: %+v err=%v", got, err)
	}
	missing, err := repo.GetByID(9999)
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil: %+v err=%v", missing, err)
	}
}

package repository

import (
	"testing"

	"github.com/storefront-next/internal/models"
)

func TestCartRepositoryKeepsInsertionOrderPerSession(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))
	items := []models.CartItem{
		{SessionID: "s1", ProductID: 7, Name: "Cargo Brown Pants", Price: models.MustMoney("34.99"), Quantity: 1, Stock: 3},
		{SessionID: "s2", ProductID: 1, Name: "Classic T-Shirt", Price: models.MustMoney("15.99"), Quantity: 1, Stock: 3},
		{SessionID: "s1", ProductID: 2, Name: "Blue Jeans", Price: models.MustMoney("39.99"), Quantity: 2, Stock: 3},
	}
	for i := range items {
		if err := repo.Create(&items[i]); err != nil {
			t.Fatalf("create cart item failed: %v", err)
		}
	}

	list, err := repo.ListBySession("s1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].ProductID != 7 || list[1].ProductID != 2 {
		t.Fatalf("unexpected order: %+v", list)
	}

	if err := repo.UpdateQuantity(list[0].ID, 3); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	item, err := repo.GetBySessionAndProduct("s1", 7)
	if err != nil || item == nil || item.Quantity != 3 {
		t.Fatalf("unexpected item after update: %+v err=%v", item, err)
	}

	removed, err := repo.DeleteBySessionAndProduct("s1", 7)
	if err != nil || removed != 1 {
		t.Fatalf("delete failed: removed=%d err=%v", removed, err)
	}
	cleared, err := repo.ClearBySession("s1")
	if err != nil || cleared != 1 {
		t.Fatalf("clear failed: cleared=%d err=%v", cleared, err)
	}
	other, err := repo.ListBySession("s2")
	if err != nil || len(other) != 1 {
		t.Fatalf("other session should be untouched: %+v err=%v", other, err)
	}
}

func TestCartRepositoryUniqueProductPerSession(t *testing.T) {
	repo := NewCartRepository(openRepositoryTestDB(t))
	first := &models.CartItem{SessionID: "s1", ProductID: 1, Name: "A", Quantity: 1, Stock: 2}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	dup := &models.CartItem{SessionID: "s1", ProductID: 1, Name: "A", Quantity: 1, Stock: 2}
	if err := repo.Create(dup); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

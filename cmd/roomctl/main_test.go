package main

import (
	"testing"

	"github.com/shopspring/decimal"

	"resort_rooms/internal/domain"
)

func TestCheckCatalog(t *testing.T) {
	cat := domain.NewCatalog([]domain.CatalogEntry{
		{Key: "family-suite", Room: domain.RoomRecord{Title: "Family Suite", Currency: domain.USD, MaxGuests: 4}},
		{Key: "Bad Key", Room: domain.RoomRecord{Title: "Bad", Currency: domain.USD, MaxGuests: 2}},
		{Key: "cheap", Room: domain.RoomRecord{Title: "Cheap", Currency: domain.USD, MaxGuests: 2, PriceBase: decimal.NewFromInt(-1)}},
	})
	rows := checkCatalog(cat)
	if len(rows) != 2 {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].Key != "Bad Key" || rows[0].Field != "slug" {
		t.Fatalf("row 0 = %+v", rows[0])
	}
	if rows[1].Key != "cheap" || rows[1].Field != "priceBase" {
		t.Fatalf("row 1 = %+v", rows[1])
	}
}

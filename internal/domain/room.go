package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	ILS Currency = "ILS"
	THB Currency = "THB"
)

func (c Currency) Valid() bool {
	switch c {
	case USD, EUR, ILS, THB:
		return true
	}
	return false
}

// RoomRecord is one room type as published in the catalog document.
type RoomRecord struct {
	Title     string          `json:"title"`
	Blurb     string          `json:"blurb,omitempty"`
	Features  []string        `json:"features,omitempty"`
	MaxGuests int             `json:"maxGuests"`
	SizeM2    float64         `json:"sizeM2"`
	BedType   string          `json:"bedType,omitempty"`
	PriceBase decimal.Decimal `json:"priceBase"`
	Currency  Currency        `json:"currency"`
	Hero      *ImageRef       `json:"hero,omitempty"`
	Images    []ImageRef      `json:"images,omitempty"`
	Slug      string          `json:"slug,omitempty"`
	Active    bool            `json:"active"`
	Stock     int             `json:"stock"`
}

// DateLayout is the only date form sent to or accepted from the quote endpoint.
const DateLayout = "2006-01-02"

type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

type Quote struct {
	RoomType       string
	CheckIn        time.Time
	CheckOut       time.Time
	TotalPrice     decimal.Decimal
	Currency       string
	IsRetreatPrice bool
}

func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RoomType       string          `json:"roomType"`
		CheckIn        string          `json:"checkIn"`
		CheckOut       string          `json:"checkOut"`
		TotalPrice     decimal.Decimal `json:"totalPrice"`
		Currency       string          `json:"currency"`
		IsRetreatPrice bool            `json:"isRetreatPrice"`
	}{
		RoomType:       q.RoomType,
		CheckIn:        q.CheckIn.Format(DateLayout),
		CheckOut:       q.CheckOut.Format(DateLayout),
		TotalPrice:     q.TotalPrice,
		Currency:       q.Currency,
		IsRetreatPrice: q.IsRetreatPrice,
	})
}

// RoomViewModel is assembled fresh for every request and never mutated afterwards.
type RoomViewModel struct {
	RoomKey    string          `json:"roomKey"`
	Title      string          `json:"title"`
	Blurb      string          `json:"blurb,omitempty"`
	Images     []string        `json:"images"`
	SizeM2     float64         `json:"sizeM2"`
	MaxGuests  int             `json:"maxGuests"`
	BedType    string          `json:"bedType,omitempty"`
	Features   []string        `json:"features"`
	PriceBase  decimal.Decimal `json:"priceBase"`
	Currency   Currency        `json:"currency"`
	Quote      *Quote          `json:"quote,omitempty"`
	QuoteError ErrorKind       `json:"quoteError,omitempty"`
}

// RoomSummary is the list projection of a catalog entry.
type RoomSummary struct {
	Key       string          `json:"key"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug,omitempty"`
	PriceBase decimal.Decimal `json:"priceBase"`
	Currency  Currency        `json:"currency"`
	MaxGuests int             `json:"maxGuests"`
	Stock     int             `json:"stock"`
}

package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"resort_rooms/internal/adapters/upstream"
	"resort_rooms/internal/domain"
)

// Client asks the booking backend for a price/availability quote.
type Client struct {
	c    *upstream.Client
	path string
}

func New(c *upstream.Client, path string) *Client {
	if path == "" {
		path = "/api/bookings/quote"
	}
	return &Client{c: c, path: path}
}

type quoteResponse struct {
	RoomType       string           `json:"roomType"`
	Currency       string           `json:"currency"`
	TotalPrice     *decimal.Decimal `json:"totalPrice"`
	IsRetreatPrice bool             `json:"isRetreatPrice"`
}

var (
	errNoPrice    = errors.New("response has no totalPrice")
	errNoCurrency = errors.New("response has no currency")
)

// FetchQuote does not validate the range; ordering is the caller's concern.
// Dates are sent as YYYY-MM-DD.
func (q *Client) FetchQuote(ctx context.Context, roomType string, checkIn, checkOut time.Time) (domain.Quote, error) {
	params := url.Values{}
	params.Set("roomType", roomType)
	params.Set("checkIn", checkIn.Format(domain.DateLayout))
	params.Set("checkOut", checkOut.Format(domain.DateLayout))

	var resp quoteResponse
	if err := q.c.GetJSON(ctx, "quote", q.path, params, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, roomType, err)
	}
	if resp.TotalPrice == nil {
		return domain.Quote{}, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, roomType, errNoPrice)
	}
	currency := strings.ToUpper(strings.TrimSpace(resp.Currency))
	if currency == "" {
		return domain.Quote{}, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, roomType, errNoCurrency)
	}

	rt := resp.RoomType
	if rt == "" {
		rt = roomType
	}
	return domain.Quote{
		RoomType:       rt,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		TotalPrice:     *resp.TotalPrice,
		Currency:       currency,
		IsRetreatPrice: resp.IsRetreatPrice,
	}, nil
}

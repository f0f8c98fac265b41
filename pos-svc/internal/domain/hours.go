package domain

import (
	"fmt"
	"strings"
	"time"
)

type StoreStatus string

const (
	StoreOpen      StoreStatus = "open"
	StoreClosed    StoreStatus = "closed"
	StoreLastOrder StoreStatus = "last_order"
)

// StoreHours is the daily window in which new orders are accepted. Open and
// Close are offsets from local midnight; orders stop LastOrder before Close.
type StoreHours struct {
	Open      time.Duration
	Close     time.Duration
	LastOrder time.Duration
	Location  *time.Location
}

// ParseStoreHours reads "HH:MM" clock times. The window must not span
// midnight.
func ParseStoreHours(open, close string, lastOrder time.Duration, zone string) (*StoreHours, error) {
	openAt, err := parseClock(open)
	if err != nil {
		return nil, err
	}
	closeAt, err := parseClock(close)
	if err != nil {
		return nil, err
	}
	if closeAt <= openAt {
		return nil, fmt.Errorf("closing time %s must be after opening time %s", close, open)
	}
	if lastOrder < 0 || lastOrder >= closeAt-openAt {
		return nil, fmt.Errorf("last order offset %s does not fit between %s and %s", lastOrder, open, close)
	}

	loc := time.UTC
	if zone = strings.TrimSpace(zone); zone != "" {
		if loc, err = time.LoadLocation(zone); err != nil {
			return nil, fmt.Errorf("load time zone %q: %w", zone, err)
		}
	}
	return &StoreHours{Open: openAt, Close: closeAt, LastOrder: lastOrder, Location: loc}, nil
}

func parseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", v, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

func (h *StoreHours) Status(now time.Time) StoreStatus {
	local := now.In(h.Location)
	since := time.Duration(local.Hour())*time.Hour + time.Duration(local.Minute())*time.Minute
	switch {
	case since < h.Open || since >= h.Close:
		return StoreClosed
	case since >= h.Close-h.LastOrder:
		return StoreLastOrder
	}
	return StoreOpen
}

// Check returns a *StoreClosedError unless orders are accepted at now. A nil
// StoreHours accepts orders at any time.
func (h *StoreHours) Check(now time.Time) error {
	if h == nil {
		return nil
	}
	switch status := h.Status(now); status {
	case StoreClosed:
		return &StoreClosedError{
			Status:  status,
			Message: fmt.Sprintf("store is closed, opening hours %s-%s", formatClock(h.Open), formatClock(h.Close)),
		}
	case StoreLastOrder:
		return &StoreClosedError{
			Status:  status,
			Message: fmt.Sprintf("last order was taken at %s", formatClock(h.Close-h.LastOrder)),
		}
	}
	return nil
}

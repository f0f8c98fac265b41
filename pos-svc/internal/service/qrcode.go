package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// TrackingQR renders the pickup tracking link for an order as a PNG.
type TrackingQR struct {
	BaseURL string
	Size    int
}

func NewTrackingQR(baseURL string) *TrackingQR {
	return &TrackingQR{BaseURL: strings.TrimRight(baseURL, "/"), Size: 256}
}

func (g *TrackingQR) Link(orderID int64) string {
	return fmt.Sprintf("%s/track?order=%d", g.BaseURL, orderID)
}

func (g *TrackingQR) Generate(orderID int64) ([]byte, error) {
	return qrcode.Encode(g.Link(orderID), qrcode.Medium, g.Size)
}

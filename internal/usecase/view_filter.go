package usecase

import (
	"strings"

	"SignalDesk/internal/domain/models"
)

// AllAssets selects every asset in ByAsset.
const AllAssets = "all"

// ViewQuery is the active projection selected by the user.
type ViewQuery struct {
	Asset string
	Query string
}

// ByAsset returns signals unchanged for "all", otherwise only exact
// (case-sensitive) asset matches. Input order is preserved.
func ByAsset(signals []models.Signal, asset string) []models.Signal {
	if asset == AllAssets {
		return signals
	}
	out := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		if s.Asset == asset {
			out = append(out, s)
		}
	}
	return out
}

// Search keeps records whose asset or direction contains query
// case-insensitively, or whose timeframe contains it case-sensitively.
func Search(signals []models.Signal, query string) []models.Signal {
	q := strings.ToLower(query)
	out := make([]models.Signal, 0, len(signals))
	for _, s := range signals {
		if strings.Contains(strings.ToLower(s.Asset), q) ||
			strings.Contains(strings.ToLower(string(s.Direction)), q) ||
			strings.Contains(s.Timeframe, query) {
			out = append(out, s)
		}
	}
	return out
}

// Apply runs ByAsset and then Search when a query is set.
func Apply(signals []models.Signal, vq ViewQuery) []models.Signal {
	asset := vq.Asset
	if asset == "" {
		asset = AllAssets
	}
	out := ByAsset(signals, asset)
	if vq.Query != "" {
		out = Search(out, vq.Query)
	}
	return out
}

// Distribution counts BUY and SELL signals.
func Distribution(signals []models.Signal) (buy, sell int) {
	for _, s := range signals {
		switch s.Direction {
		case models.DirectionBuy:
			buy++
		case models.DirectionSell:
			sell++
		}
	}
	return buy, sell
}

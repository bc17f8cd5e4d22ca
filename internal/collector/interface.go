package collector

import (
	"context"

	"github.com/anystockai/tracker/internal/core"
)

// PriceSource supplies the one-year daily price bars shown in the
// historical price table.
type PriceSource interface {
	Name() string
	FetchPriceHistory(ctx context.Context, symbol string) ([]core.PriceBar, error)
}

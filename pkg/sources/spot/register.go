package spot

import (
	"github.com/BBJcaptain/keju2/pkg/sources"
)

func init() {
	// Register all gold spot sources
	sources.Register("spot.cnbc", NewCNBCSourceFromConfig)
	sources.Register("spot.goldprice_org", NewGoldPriceSourceFromConfig)
	sources.Register("spot.metals_live", NewMetalsLiveSourceFromConfig)
}

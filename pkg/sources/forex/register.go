package forex

import (
	"github.com/BBJcaptain/keju2/pkg/sources"
)

func init() {
	// Register all forex rate sources
	sources.Register("forex.cnbc", NewCNBCSourceFromConfig)
	sources.Register("forex.exchangerate_api", NewExchangeRateSourceFromConfig)
	sources.Register("forex.frankfurter", NewFrankfurterSourceFromConfig)
}

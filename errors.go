package analytics

import (
	"fmt"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

// IsConfigurationError returns true if the error returned by New (or by the config
// loading functions) represents an invalid configuration, as opposed to some other kind
// of failure.
func IsConfigurationError(err error) bool {
	return config.IsConfigurationError(err)
}

func errNewMetricsManagerFailed(err error) error {
	return fmt.Errorf("unable to create metrics manager: %w", err)
}

package platforms

import (
	"fmt"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

func errBadPlatformValue(p config.Platform) error {
	return fmt.Errorf("%q is not a valid platform: %w", string(p), config.ErrInvalidPlatform)
}

package scans

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InputKey names the blob for one scan input:
// scans/<user>/<utc timestamp>_<label>_<first 8 chars of a fresh id><ext>.
func InputKey(userID uuid.UUID, label, ext string, now time.Time) string {
	return fmt.Sprintf("scans/%s/%s_%s_%s%s",
		userID.String(),
		now.UTC().Format("20060102T150405"),
		label,
		uuid.NewString()[:8],
		ext,
	)
}

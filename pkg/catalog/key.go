package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// attachmentKey builds the blob-store key for a newly uploaded
// attachment: <kind>/<uuid>[_<filename>]. The uuid keeps keys unique
// across replacements of the same item's image, so a stale reference
// never collides with a fresh upload.
func attachmentKey(kind, fileName string) string {
	id := uuid.New()
	if fileName == "" {
		return fmt.Sprintf("%s/%s", kind, id)
	}
	return fmt.Sprintf("%s/%s_%s", kind, id, sanitizeFileName(fileName))
}

// sanitizeFileName strips characters that are unsafe in object keys
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		" ", "_",
		"..", "_",
	)
	return replacer.Replace(name)
}

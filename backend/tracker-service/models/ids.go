package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newID builds identifiers shaped like PROJ-1718000000000-3f9a2c1bd.
func newID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

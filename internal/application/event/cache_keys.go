package event

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

func cacheKeyEventDetails(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// cacheKeyApprovedList hashes the normalized filter so every distinct window
// and page size gets its own entry.
func cacheKeyApprovedList(f ListFilter) string {
	from, to := "", ""
	if f.From != nil {
		from = f.From.UTC().Format(time.RFC3339)
	}
	if f.To != nil {
		to = f.To.UTC().Format(time.RFC3339)
	}
	raw := fmt.Sprintf("from=%s|to=%s|ps=%d", from, to, f.PageSize)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("events:approved:%s", hex.EncodeToString(sum[:]))
}

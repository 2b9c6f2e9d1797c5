package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/kailas-cloud/ragdex/internal/domain"
)

// Fingerprint derives the deterministic query cache key: normalized text,
// filter, k and the diversification flag all participate, so two requests
// share an entry only when the pipeline would produce the same answer.
func Fingerprint(q domain.Query) string {
	var sb strings.Builder
	sb.WriteString(q.NormalizedText())
	sb.WriteByte('\n')
	sb.WriteString(q.Filter.Canonical())
	sb.WriteByte('\n')
	sb.WriteString(strconv.Itoa(q.K))
	sb.WriteByte('\n')
	sb.WriteString(strconv.FormatBool(q.Diversify))

	h := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(h[:])
}

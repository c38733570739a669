package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Namespaces separating the two artifact kinds inside one batch seed.
const (
	NamespacePayments = "payments"
	NamespaceBankTxns = "banktxns"
)

// MakeIdemKey derives a stable idempotency key from the ordered parts. The
// same parts always hash to the same key, so a resubmitted batch reaches the
// ledger with a key it has already seen and is treated as a no-op.
func MakeIdemKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// CanonicalJSON serializes a request body deterministically so it can feed
// an idempotency key. Struct field order is fixed at compile time, which
// keeps the serialization stable across runs.
func CanonicalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize request body: %w", err)
	}
	return string(data), nil
}

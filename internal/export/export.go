// Package export produces a flat, human-readable text report from a
// database's accounts. No secrets are redacted: the report is meant for a
// trusted local inspection or migration, never for sharing.
package export

import (
	"sort"
	"strings"

	"tupm/internal/payload"
)

// Flat serializes accounts into a deterministic plaintext report: one
// block per account in the order name, user, url, password, notes, with a
// blank line between blocks. Accounts are sorted by name regardless of
// input order.
func Flat(accounts []payload.Account) string {
	sorted := make([]payload.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for i, acc := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("name: " + acc.Name + "\n")
		b.WriteString("user: " + acc.User + "\n")
		b.WriteString("url: " + acc.URL + "\n")
		b.WriteString("password: " + acc.Password + "\n")
		b.WriteString("notes: " + acc.Notes + "\n")
	}
	return b.String()
}

// Package reportstore persists citizen event reports. Reports are assigned an
// id and a creation time on save and are never modified afterwards.
package reportstore

import "github.com/couchcryptid/coastal-erosion-api/internal/domain"

func limit(max int) int {
	if max <= 0 {
		return domain.DefaultReportLimit
	}
	return max
}

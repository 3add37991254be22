package enrich

import (
	"strings"

	"civicbridge/internal/domain"
)

// ClassifyChamber derives the chamber from a resolver's free-text legislator
// type. Matching is by substring on the lowercased value, so variants like
// "Senator, 3rd Class" still classify. Senator wins over representative when
// both words appear. Anything unrecognized falls back to Legislator.
func ClassifyChamber(legislatorType string) domain.Chamber {
	t := strings.ToLower(legislatorType)
	switch {
	case strings.Contains(t, "senator"):
		return domain.ChamberSenator
	case strings.Contains(t, "representative"):
		return domain.ChamberRepresentative
	default:
		return domain.ChamberLegislator
	}
}

// districtFor returns the district number to store for a record. Senators
// serve statewide and carry no district; everyone else gets the resolved
// district number.
func districtFor(chamber domain.Chamber, number int) *int {
	if chamber == domain.ChamberSenator {
		return nil
	}
	n := number
	return &n
}

package certificates

import (
	"github.com/shopspring/decimal"

	"github.com/compliqo/compliqo-backend/pkg/enums"
)

var (
	expertThreshold       = decimal.NewFromInt(90)
	professionalThreshold = decimal.NewFromInt(80)
)

// TierForScore derives the qualitative certification level from a percent
// score. A nil score yields no tier at all; the certificate then carries
// no level line rather than a default one.
func TierForScore(score *decimal.Decimal) (enums.CertificationTier, bool) {
	if score == nil {
		return "", false
	}
	switch {
	case score.GreaterThanOrEqual(expertThreshold):
		return enums.CertificationTierExpert, true
	case score.GreaterThanOrEqual(professionalThreshold):
		return enums.CertificationTierProfessional, true
	default:
		return enums.CertificationTierFoundation, true
	}
}

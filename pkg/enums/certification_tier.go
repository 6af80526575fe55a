package enums

// CertificationTier is the qualitative achievement label rendered on a
// certificate when a numeric score is present.
type CertificationTier string

const (
	CertificationTierFoundation   CertificationTier = "Foundation"
	CertificationTierProfessional CertificationTier = "Professional"
	CertificationTierExpert       CertificationTier = "Expert"
)

// String implements fmt.Stringer.
func (c CertificationTier) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CertificationTier.
func (c CertificationTier) IsValid() bool {
	switch c {
	case CertificationTierFoundation, CertificationTierProfessional, CertificationTierExpert:
		return true
	}
	return false
}

package dataprocessing

import "focbcli/pkg/domain"

// NitrogenAtomicMass is the atomic mass of elemental nitrogen, g/mol.
const NitrogenAtomicMass = 14.007

// MolarToMassN converts a molar concentration (µM) to a mass
// concentration in mg/L as elemental nitrogen. Null-propagating.
func MolarToMassN(uM *float64) *float64 {
	if uM == nil {
		return nil
	}
	v := *uM * NitrogenAtomicMass / 1000
	return &v
}

// DeriveNitrogenFields computes the mass-equivalent conversions,
// organic nitrogen by difference, and the lab-error flag for one
// record. All arithmetic null-propagates: a null operand yields a null
// result, never a computed default.
func DeriveNitrogenFields(r *domain.SampleRecord) {
	r.NOxN = MolarToMassN(r.NOx)
	r.NH4N = MolarToMassN(r.NH4)
	r.DINN = MolarToMassN(r.DIN)

	if r.TN != nil && r.DINN != nil {
		organic := *r.TN - *r.DINN
		r.OrganicN = &organic
	} else {
		r.OrganicN = nil
	}

	// Dissolved inorganic nitrogen cannot exceed total nitrogen beyond
	// measurement noise; when it does, the pair is a likely lab error.
	// Absence of either operand is not evidence of error, so the flag
	// defaults to false rather than null.
	r.ErrorFlag = r.DINN != nil && r.TN != nil && *r.DINN > *r.TN
}

// DeriveAll applies DeriveNitrogenFields to every record in place and
// returns the same slice.
func DeriveAll(records []domain.SampleRecord) []domain.SampleRecord {
	for i := range records {
		DeriveNitrogenFields(&records[i])
	}
	return records
}

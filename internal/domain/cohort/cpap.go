package cohort

import "time"

// DeviceObservation is one charted oxygen-delivery-device value for a stay,
// already restricted to the first 24 hours of the stay by the feed query.
type DeviceObservation struct {
	ICUStayID int64     `json:"icustay_id"`
	ChartTime time.Time `json:"charttime"`
	Value     string    `json:"value"`
}

// cpapDeviceValues are the charted values that indicate non-invasive
// positive-pressure ventilation. Matching is exact and case-sensitive:
// these are the literal strings the bedside systems record.
var cpapDeviceValues = map[string]bool{
	"CPAP Mask":  true,
	"Bipap Mask": true,
}

// ExtractCPAPFlags derives the per-stay CPAP flag from the device
// observation feed. A stay appears in the result only when at least one
// observation matched; stays with observations that never match are
// absent, which downstream treats as "not recorded" rather than false.
func ExtractCPAPFlags(obs []DeviceObservation) map[int64]bool {
	flags := make(map[int64]bool)
	for _, o := range obs {
		if cpapDeviceValues[o.Value] {
			flags[o.ICUStayID] = true
		}
	}
	return flags
}

// pkg/core/hazard.go
package core

// HazardID identifies a falling body.
type HazardID uint32

// Hazard is a falling body that can be shot apart before it lands.
// Only hazards with Countdown 0 are inside the region and can be targeted.
type Hazard struct {
	ID             HazardID `json:"id"`
	Name           string   `json:"name"`
	Damage         float64  `json:"damage"`
	BreakThreshold float64  `json:"breakThreshold"`
	Countdown      int      `json:"countdown"`
}

// Broken reports whether accumulated damage reached the break threshold.
func (h *Hazard) Broken() bool {
	return h.Damage >= h.BreakThreshold
}

// InRegion reports whether the hazard has arrived and can be engaged.
func (h *Hazard) InRegion() bool {
	return h.Countdown == 0
}

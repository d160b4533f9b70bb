package battle

import "github.com/starhold/battlesim/pkg/core"

// discover builds the fighting set. While hazards remain every faction is
// drawn in; otherwise a faction fights only if its intent says so. hostile
// reports whether any faction actually wants to fight another.
func (c *Controller) discover(force bool) (fighting []core.FactionID, hostile bool) {
	s := c.session
	hazards := s.hazards.Len() > 0

	for _, f := range c.world.Factions() {
		intent := c.world.Intent(s.region, f, force)
		if intent.WantsFight {
			hostile = true
		}
		if !hazards && !intent.WantsFight {
			continue
		}
		fighting = append(fighting, f)
	}
	return fighting, hostile
}

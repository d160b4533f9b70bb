// pkg/core/preferences.go
package core

// Preferences is the multiplicative weight vector the target scorer uses.
// A zero factor rules a whole class of targets out.
type Preferences struct {
	Base float64 `json:"base" mapstructure:"base"`

	Large float64 `json:"large" mapstructure:"large"`
	Small float64 `json:"small" mapstructure:"small"`

	Station    float64 `json:"station" mapstructure:"station"`
	NonStation float64 `json:"nonStation" mapstructure:"nonStation"`

	Military float64 `json:"military" mapstructure:"military"`
	Civil    float64 `json:"civil" mapstructure:"civil"`

	Dangerous float64 `json:"dangerous" mapstructure:"dangerous"`
	Harmless  float64 `json:"harmless" mapstructure:"harmless"`

	Stranded float64 `json:"stranded" mapstructure:"stranded"`
	Mobile   float64 `json:"mobile" mapstructure:"mobile"`

	UncontrollableCivil         float64 `json:"uncontrollableCivil" mapstructure:"uncontrollableCivil"`
	UncontrollableSmallMilitary float64 `json:"uncontrollableSmallMilitary" mapstructure:"uncontrollableSmallMilitary"`
	UncontrollableLargeMilitary float64 `json:"uncontrollableLargeMilitary" mapstructure:"uncontrollableLargeMilitary"`

	Harpooned float64 `json:"harpooned" mapstructure:"harpooned"`
}

// DefaultPreferences is the baseline vector before unit doctrine is applied.
func DefaultPreferences() Preferences {
	return Preferences{
		Base:                        10,
		Large:                       1,
		Small:                       1,
		Station:                     0.5,
		NonStation:                  1,
		Military:                    2,
		Civil:                       0.5,
		Dangerous:                   2,
		Harmless:                    0.5,
		Stranded:                    0.75,
		Mobile:                      1,
		UncontrollableCivil:         0.1,
		UncontrollableSmallMilitary: 0.3,
		UncontrollableLargeMilitary: 0.5,
		Harpooned:                   0.2,
	}
}

// Doctrine holds a unit's fire-control overrides. Nil fields keep the default.
type Doctrine struct {
	Large                       *float64 `json:"large,omitempty"`
	Small                       *float64 `json:"small,omitempty"`
	Station                     *float64 `json:"station,omitempty"`
	UncontrollableCivil         *float64 `json:"uncontrollableCivil,omitempty"`
	UncontrollableSmallMilitary *float64 `json:"uncontrollableSmallMilitary,omitempty"`
	UncontrollableLargeMilitary *float64 `json:"uncontrollableLargeMilitary,omitempty"`
	Harpooned                   *float64 `json:"harpooned,omitempty"`
}

// Apply returns p with the doctrine's overrides written over it.
func (d Doctrine) Apply(p Preferences) Preferences {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Large, d.Large)
	set(&p.Small, d.Small)
	set(&p.Station, d.Station)
	set(&p.UncontrollableCivil, d.UncontrollableCivil)
	set(&p.UncontrollableSmallMilitary, d.UncontrollableSmallMilitary)
	set(&p.UncontrollableLargeMilitary, d.UncontrollableLargeMilitary)
	set(&p.Harpooned, d.Harpooned)
	return p
}

// Intent is the outcome of a faction's battle-intent evaluation in a region.
type Intent struct {
	WantsFight bool
	HasDanger  bool
}

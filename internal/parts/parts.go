// Package parts is the static catalog of the six schematic components and the
// hover lookup used by the component card.
package parts

// ID identifies a schematic component.
type ID string

const (
	Capacitor         ID = "c1"
	BaseResistor      ID = "r_base"
	DischargeResistor ID = "r_discharge"
	Transistor        ID = "q1"
	PullUpResistor    ID = "r_pullup"
	Amplifier         ID = "chip"
)

// Info is the descriptive record shown for a hovered component.
type Info struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Value       string `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
	Role        string `json:"role" yaml:"role"`
}

var catalog = []Info{
	{
		ID:          Capacitor,
		Name:        "Capacitor",
		Value:       "10µF",
		Description: "Stores electrical energy. In this circuit, it acts as a timer. When power turns on, it allows current to flow briefly while it charges up.",
		Role:        "The Timer",
	},
	{
		ID:          BaseResistor,
		Name:        "Base Resistor",
		Value:       "22kΩ",
		Description: "Limits the current flowing into the transistor base to prevent damage.",
		Role:        "Current Limiter",
	},
	{
		ID:          DischargeResistor,
		Name:        "Discharge Resistor",
		Value:       "100kΩ",
		Description: "Provides a path for the capacitor to discharge when power is turned off, resetting the timer for the next use.",
		Role:        "Reset Switch",
	},
	{
		ID:          Transistor,
		Name:        "NPN Transistor",
		Value:       "BC548",
		Description: "An electronic switch. When current flows into its Base (B), it connects the Collector (C) to Emitter (E), pulling the signal to ground.",
		Role:        "The Switch",
	},
	{
		ID:          PullUpResistor,
		Name:        "Pull-Up Resistor",
		Value:       "12kΩ",
		Description: `Connects the SDZ pin to 24V. Together with the internal 100kΩ resistor, it sets the voltage to the correct level for "On".`,
		Role:        "Voltage Setter",
	},
	{
		ID:          Amplifier,
		Name:        "Amplifier Chip",
		Value:       "TPA3116",
		Description: "The main audio amplifier. It has an SDZ (Shutdown) pin. If SDZ is Low (<2V), it is Muted. If High (>2V), it plays sound.",
		Role:        "The Brain",
	},
}

// Catalog returns every part in schematic order.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the part identifiers in schematic order.
func IDs() []ID {
	ids := make([]ID, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}
	return ids
}

// Lookup returns the record for id. Unknown or empty ids report false.
func Lookup(id ID) (Info, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Info{}, false
}

// Next returns the id after current in schematic order, wrapping around.
// An unknown current yields the first part. A negative step walks backwards.
func Next(current ID, step int) ID {
	ids := IDs()
	idx := -1
	for i, id := range ids {
		if id == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if step < 0 {
			return ids[len(ids)-1]
		}
		return ids[0]
	}
	n := len(ids)
	return ids[((idx+step)%n+n)%n]
}

package models

// Persona selects the default scope and visible fields of the exploration view
type Persona string

const (
	PersonaTraveler Persona = "traveler"
	PersonaHost     Persona = "host"
)

// Snapshot years present in the dataset
const (
	YearEarly = 2019
	YearLate  = 2020
)

// ParsePersona normalizes a persona string; anything unknown falls back to traveler
func ParsePersona(s string) Persona {
	if s == string(PersonaHost) {
		return PersonaHost
	}
	return PersonaTraveler
}

// DefaultYear returns the snapshot year a fresh session starts on.
// Hosts default to the latest snapshot, travelers to the earlier one.
func (p Persona) DefaultYear() int {
	if p == PersonaHost {
		return YearLate
	}
	return YearEarly
}

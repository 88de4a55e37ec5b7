package models

// EntitySet holds the entities extracted from one or more utterances,
// grouped by category. Values within a category are deduplicated and keep
// first-seen order.
type EntitySet struct {
	ProNumbers        []string `json:"pro_numbers,omitempty"`
	Locations         []string `json:"locations,omitempty"`
	Dates             []string `json:"dates,omitempty"`
	Carriers          []string `json:"carriers,omitempty"`
	Weights           []string `json:"weights,omitempty"`
	ReferenceNumbers  []string `json:"reference_numbers,omitempty"`
	UrgencyIndicators []string `json:"urgency_indicators,omitempty"`
}

// Merge unions other into s, category by category, preserving the order in
// which values were first seen.
func (s *EntitySet) Merge(other EntitySet) {
	s.ProNumbers = appendUnique(s.ProNumbers, other.ProNumbers...)
	s.Locations = appendUnique(s.Locations, other.Locations...)
	s.Dates = appendUnique(s.Dates, other.Dates...)
	s.Carriers = appendUnique(s.Carriers, other.Carriers...)
	s.Weights = appendUnique(s.Weights, other.Weights...)
	s.ReferenceNumbers = appendUnique(s.ReferenceNumbers, other.ReferenceNumbers...)
	s.UrgencyIndicators = appendUnique(s.UrgencyIndicators, other.UrgencyIndicators...)
}

// HasIdentifier reports whether at least one PRO number was extracted.
func (s EntitySet) HasIdentifier() bool {
	return len(s.ProNumbers) > 0
}

// Identifier returns the first extracted PRO number, or "".
func (s EntitySet) Identifier() string {
	if len(s.ProNumbers) == 0 {
		return ""
	}
	return s.ProNumbers[0]
}

// Carrier returns the first extracted carrier name, or "".
func (s EntitySet) Carrier() string {
	if len(s.Carriers) == 0 {
		return ""
	}
	return s.Carriers[0]
}

// Route returns origin and destination guesses from the extracted locations.
// The first location is treated as origin, the second as destination.
func (s EntitySet) Route() (origin, destination string) {
	if len(s.Locations) > 0 {
		origin = s.Locations[0]
	}
	if len(s.Locations) > 1 {
		destination = s.Locations[1]
	}
	return origin, destination
}

// Urgent reports whether any urgency indicator was extracted.
func (s EntitySet) Urgent() bool {
	return len(s.UrgencyIndicators) > 0
}

// Empty reports whether no entities were extracted at all.
func (s EntitySet) Empty() bool {
	return len(s.ProNumbers) == 0 && len(s.Locations) == 0 && len(s.Dates) == 0 &&
		len(s.Carriers) == 0 && len(s.Weights) == 0 &&
		len(s.ReferenceNumbers) == 0 && len(s.UrgencyIndicators) == 0
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		if v == "" {
			continue
		}
		seen := false
		for _, existing := range dst {
			if existing == v {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, v)
		}
	}
	return dst
}

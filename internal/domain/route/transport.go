package route

import "fmt"

// TransportProfile selects the routing profile and the travel-speed
// assumption used for straight-line fallback durations.
type TransportProfile string

const (
	TransportWalking TransportProfile = "walking"
	TransportCycling TransportProfile = "cycling"
	TransportDriving TransportProfile = "driving"
	TransportTransit TransportProfile = "transit"
)

// IsValid returns true if the profile is recognized.
func (t TransportProfile) IsValid() bool {
	switch t {
	case TransportWalking, TransportCycling, TransportDriving, TransportTransit:
		return true
	}
	return false
}

// DirectionsProfile maps the profile to the external provider's profile
// segment. Transit is approximated as walking since the provider has no
// transit profile.
func (t TransportProfile) DirectionsProfile() string {
	switch t {
	case TransportCycling:
		return "cycling"
	case TransportDriving:
		return "driving"
	default:
		return "walking"
	}
}

// AvgSpeedKmh returns the assumed travel speed used when synthesizing
// fallback durations.
func (t TransportProfile) AvgSpeedKmh() float64 {
	switch t {
	case TransportWalking:
		return 5
	case TransportCycling:
		return 15
	case TransportDriving:
		return 40
	case TransportTransit:
		return 20
	default:
		return 5
	}
}

// String returns the string representation of the profile.
func (t TransportProfile) String() string {
	return string(t)
}

// ParseTransportProfile converts a string to a TransportProfile.
func ParseTransportProfile(s string) (TransportProfile, error) {
	p := TransportProfile(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid transport profile: %s", s)
	}
	return p, nil
}

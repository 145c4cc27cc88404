package domain

// Provenance records how a location suggestion was obtained.
type Provenance string

const (
	ProvenanceUnknown Provenance = "unknown"
	ProvenanceIP      Provenance = "ip"
	ProvenanceBrowser Provenance = "browser"
)

// Coordinates from a host geolocation source.
type Coordinates struct {
	Lat float64
	Lon float64
}

// LocationSuggestion is the personalization default derived from the
// backend's location detection. A failed refinement never erases an earlier
// successful suggestion; PermissionDenied only flags the advisory.
type LocationSuggestion struct {
	City              string
	State             string
	Country           string
	Detected          bool
	SuggestedLanguage string
	Provenance        Provenance
	PermissionDenied  bool
}

// DefaultLocationSuggestion is used when no resolution attempt succeeded.
func DefaultLocationSuggestion() LocationSuggestion {
	return LocationSuggestion{
		Country:           "India",
		SuggestedLanguage: "English",
		Provenance:        ProvenanceUnknown,
	}
}

// DetectLocationResponse is the wire shape of /detect_location.
type DetectLocationResponse struct {
	Location struct {
		City     string `json:"city"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Detected bool   `json:"detected"`
	} `json:"location"`
	SuggestedLanguage string `json:"suggested_language"`
}

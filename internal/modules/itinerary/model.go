// README: Canonical stop/attraction records shared by the planning pipelines.
package itinerary

// Stop is one point of interest in canonical form. Coordinates are nullable:
// "unknown" is a valid state and is never fabricated by normalization.
type Stop struct {
	Name           string   `json:"name"`
	Tags           []string `json:"tags"`
	Cost           string   `json:"cost"`
	Lat            *float64 `json:"lat"`
	Lon            *float64 `json:"lon"`
	TypicalMinutes int      `json:"typical_minutes"`
	Mobility       string   `json:"mobility"`
	Reason         string   `json:"reason"`
	CrowdLevel     string   `json:"crowd_level,omitempty"`
	PhotoTip       string   `json:"photo_tip,omitempty"`
	BestTime       string   `json:"best_time,omitempty"`
}

// HasCoords reports whether both latitude and longitude are present.
func (s Stop) HasCoords() bool {
	return s.Lat != nil && s.Lon != nil
}

// ScheduledStop is a Stop placed into a day plan. The four timing fields are
// computed by the scheduler, never user-supplied.
type ScheduledStop struct {
	Stop
	Start                 string `json:"start"`
	End                   string `json:"end"`
	TravelMinutesFromPrev int    `json:"travel_minutes_from_prev"`
	DwellMinutes          int    `json:"dwell_minutes"`
}

// Attraction is the ranker variant's record: no coordinates, but a rating
// and sightseeing extras.
type Attraction struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Rating     *float64 `json:"rating"`
	Cost       string   `json:"cost"`
	CrowdLevel string   `json:"crowd_level,omitempty"`
	PhotoTip   string   `json:"photo_tip,omitempty"`
	Reason     string   `json:"reason"`
}

const (
	// CostUnspecified is the default cost tier when the model says nothing.
	CostUnspecified = "unspecified"

	defaultStopName = "Place"
)

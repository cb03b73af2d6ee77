package safety

// Item is a single vendor offering (ticket, tour, transfer) a traveler is
// about to pay for.
type Item struct {
	Name           string   `json:"name"`
	URL            string   `json:"url,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Vendor         string   `json:"vendor,omitempty"`
	Reviews        []string `json:"reviews,omitempty"`
	PaymentMethods []string `json:"payment_methods,omitempty"`
	City           string   `json:"city,omitempty"`
}

// PlannerPayload is the full set of items to vet for one trip.
type PlannerPayload struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
	Date    string `json:"date,omitempty"`
	Items   []Item `json:"items"`
}

// CheckResult is the scored verdict for one item.
type CheckResult struct {
	Item         Item     `json:"item"`
	Risk         int      `json:"risk"`
	Signals      []string `json:"signals"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Report is the final aggregated scam report for a payload.
type Report struct {
	Badge        string        `json:"badge"`
	Reasons      []string      `json:"reasons"`
	PolicyNotes  []string      `json:"policy_notes"`
	SafetyTips   []string      `json:"safety_tips"`
	Alternatives []string      `json:"alternatives"`
	Checks       []CheckResult `json:"checks"`
}

const (
	BadgeGreen = "GREEN"
	BadgeAmber = "AMBER"
	BadgeRed   = "RED"
)

// BadgeFor maps the worst per-item risk to a traffic-light badge.
func BadgeFor(maxRisk int) string {
	switch {
	case maxRisk < 30:
		return BadgeGreen
	case maxRisk < 60:
		return BadgeAmber
	default:
		return BadgeRed
	}
}

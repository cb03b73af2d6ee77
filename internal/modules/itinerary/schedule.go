package itinerary

import (
	"fmt"
	"math"
	"time"

	"wayfarer/internal/config"
)

// Scheduler turns an ordered stop list into a timed day plan using fixed
// travel-speed estimates.
type Scheduler struct {
	cfg config.ItineraryConfig
}

func NewScheduler(cfg config.ItineraryConfig) *Scheduler {
	return &Scheduler{cfg: cfg}
}

// TravelMinutes estimates drive time between two stops at the configured
// city average speed, floored to avoid degenerate near-zero estimates.
// When either side lacks coordinates a fixed default applies.
func (sc *Scheduler) TravelMinutes(a, b Stop) int {
	if !a.HasCoords() || !b.HasCoords() {
		return sc.cfg.DefaultTravelMins
	}
	km := HaversineKm(*a.Lat, *a.Lon, *b.Lat, *b.Lon)
	minutes := int(math.Round(km / sc.cfg.SpeedKmh * 60))
	if minutes < sc.cfg.MinTravelMinutes {
		return sc.cfg.MinTravelMinutes
	}
	return minutes
}

// ScheduleDay walks the ordered stops: the first starts exactly at the given
// HH:MM time with zero travel; each later stop starts at the previous end
// plus travel plus the configured buffer. Dwell comes from the stop's
// typical minutes.
func (sc *Scheduler) ScheduleDay(route []Stop, startTime string) ([]ScheduledStop, error) {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", startTime, err)
	}

	day := make([]ScheduledStop, 0, len(route))
	for i, stop := range route {
		travel := 0
		if i > 0 {
			travel = sc.TravelMinutes(route[i-1], stop)
			t = t.Add(time.Duration(travel) * time.Minute)
		}
		dwell := stop.TypicalMinutes
		if dwell <= 0 {
			dwell = sc.cfg.DefaultDwellMins
		}
		start := t
		end := start.Add(time.Duration(dwell) * time.Minute)

		day = append(day, ScheduledStop{
			Stop:                  stop,
			Start:                 start.Format("15:04"),
			End:                   end.Format("15:04"),
			TravelMinutesFromPrev: travel,
			DwellMinutes:          dwell,
		})

		t = end.Add(time.Duration(sc.cfg.BufferMinutes) * time.Minute)
	}
	return day, nil
}

package itinerary

import (
	"reflect"
	"testing"
)

func TestNormalizeStops_Defaults(t *testing.T) {
	raw := []any{
		map[string]any{},
	}
	got := NormalizeStops(raw, 45)
	if len(got) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(got))
	}
	s := got[0]
	if s.Name != "Place" {
		t.Errorf("name = %q, want Place", s.Name)
	}
	if s.Cost != CostUnspecified {
		t.Errorf("cost = %q, want %q", s.Cost, CostUnspecified)
	}
	if s.TypicalMinutes != 45 {
		t.Errorf("typical minutes = %d, want 45", s.TypicalMinutes)
	}
	if s.Mobility != "easy" {
		t.Errorf("mobility = %q, want easy", s.Mobility)
	}
	if s.Lat != nil || s.Lon != nil {
		t.Errorf("coords should stay nil, got (%v, %v)", s.Lat, s.Lon)
	}
}

func TestNormalizeStops_CoercesAndAliases(t *testing.T) {
	raw := []any{
		map[string]any{
			"name":            "  Temple of the Tooth  ",
			"lat":             "7.2936",
			"lng":             80.6413,
			"typical_minutes": float64(90),
			"tags":            "culture, history",
			"cost":            "PAID",
			"season":          "morning",
		},
	}
	got := NormalizeStops(raw, 45)
	s := got[0]
	if s.Name != "Temple of the Tooth" {
		t.Errorf("name = %q", s.Name)
	}
	if s.Lat == nil || *s.Lat != 7.2936 {
		t.Errorf("lat = %v, want 7.2936", s.Lat)
	}
	if s.Lon == nil || *s.Lon != 80.6413 {
		t.Errorf("lon (from lng alias) = %v, want 80.6413", s.Lon)
	}
	if s.TypicalMinutes != 90 {
		t.Errorf("typical minutes = %d, want 90", s.TypicalMinutes)
	}
	if !reflect.DeepEqual(s.Tags, []string{"culture", "history"}) {
		t.Errorf("tags = %v", s.Tags)
	}
	if s.Cost != "paid" {
		t.Errorf("cost = %q, want lower-cased paid", s.Cost)
	}
	if s.BestTime != "morning" {
		t.Errorf("best time (from season alias) = %q", s.BestTime)
	}
}

func TestNormalizeStops_MalformedCoordsBecomeNil(t *testing.T) {
	raw := []any{
		map[string]any{"name": "X", "lat": "north-ish", "lon": []any{1}},
	}
	s := NormalizeStops(raw, 45)[0]
	if s.Lat != nil || s.Lon != nil {
		t.Errorf("malformed coords should be nil, got (%v, %v)", s.Lat, s.Lon)
	}
}

func TestNormalizeStops_DedupeCaseInsensitive(t *testing.T) {
	raw := []any{
		map[string]any{"name": "Kandy Lake", "reason": "first"},
		map[string]any{"name": "kandy lake", "reason": "dup"},
		map[string]any{"name": "Market"},
	}
	got := NormalizeStops(raw, 45)
	if len(got) != 2 {
		t.Fatalf("expected 2 stops after dedupe, got %d", len(got))
	}
	if got[0].Name != "Kandy Lake" || got[0].Reason != "first" {
		t.Errorf("first occurrence should win: %+v", got[0])
	}
	if got[1].Name != "Market" {
		t.Errorf("order not preserved: %+v", got[1])
	}
}

func TestNormalizeStops_Idempotent(t *testing.T) {
	raw := []any{
		map[string]any{"name": "Temple", "lat": 7.29, "lon": 80.64, "typical_minutes": float64(60), "tags": []any{"culture"}},
		map[string]any{"name": "Lake"},
	}
	once := NormalizeStops(raw, 45)

	reRaw := make([]any, len(once))
	for i, s := range once {
		m := map[string]any{
			"name":            s.Name,
			"tags":            s.Tags,
			"cost":            s.Cost,
			"typical_minutes": float64(s.TypicalMinutes),
			"mobility":        s.Mobility,
			"reason":          s.Reason,
		}
		if s.Lat != nil {
			m["lat"] = *s.Lat
		}
		if s.Lon != nil {
			m["lon"] = *s.Lon
		}
		reRaw[i] = m
	}
	twice := NormalizeStops(reRaw, 45)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizeAttractions(t *testing.T) {
	raw := []any{
		map[string]any{"name": "Sigiriya", "category": "Heritage", "rating": 4.8, "photo_spots": "summit at dawn"},
		map[string]any{"name": "SIGIRIYA", "rating": 1.0},
		map[string]any{"name": "Beach", "rating": "4.2"},
	}
	got := NormalizeAttractions(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 attractions after dedupe, got %d", len(got))
	}
	if got[0].Category != "heritage" {
		t.Errorf("category = %q, want heritage", got[0].Category)
	}
	if got[0].Rating == nil || *got[0].Rating != 4.8 {
		t.Errorf("rating = %v, want 4.8 (first occurrence wins)", got[0].Rating)
	}
	if got[0].PhotoTip != "summit at dawn" {
		t.Errorf("photo tip alias not resolved: %q", got[0].PhotoTip)
	}
	if got[1].Rating == nil || *got[1].Rating != 4.2 {
		t.Errorf("string rating not coerced: %v", got[1].Rating)
	}
}

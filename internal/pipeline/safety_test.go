package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/config"
	"wayfarer/internal/guard"
	"wayfarer/internal/modules/safety"
)

// nullSources answers every lookup with a miss.
type nullSources struct{}

func (nullSources) IsMalicious(context.Context, string) (bool, bool)         { return false, false }
func (nullSources) DomainAgeDays(context.Context, string) (int, bool)        { return 0, false }
func (nullSources) MedianPrice(context.Context, string, string) (float64, bool) { return 0, false }
func (nullSources) OfficialWebsite(context.Context, string, string) (string, bool) {
	return "", false
}
func (nullSources) WeatherTip(context.Context, string) (string, bool) { return "", false }
func (nullSources) CountryAdvisory(context.Context, string) (float64, string, bool) {
	return 0, "", false
}

func testSafetyCfg() config.SafetyConfig {
	return config.SafetyConfig{
		SpamRepeatThreshold: 3,
		CheapRatio:          0.5,
		YoungDomainDays:     90,
		MaxConcurrentChecks: 5,
	}
}

func TestSafetyRunOfflineSignals(t *testing.T) {
	p := NewSafety(testSafetyCfg(), nullSources{})

	price := 8.0
	payload := safety.PlannerPayload{
		City:    "Colombo",
		Country: "LK",
		Items: []safety.Item{
			{
				Name:           "Colombo city tuk-tuk tour",
				URL:            "https://supercheep-tours.com",
				Price:          &price,
				PaymentMethods: []string{"cash"},
			},
		},
	}
	report, err := p.Run(context.Background(), payload)
	require.NoError(t, err)

	// Bargain wording +5, cash-only +10 even with every live source down.
	require.Len(t, report.Checks, 1)
	assert.Equal(t, 15, report.Checks[0].Risk)
	assert.Equal(t, safety.BadgeGreen, report.Badge)
	assert.NotEmpty(t, report.SafetyTips)
}

func TestSafetyRunRedactsReviewPII(t *testing.T) {
	p := NewSafety(testSafetyCfg(), nullSources{})

	payload := safety.PlannerPayload{
		City: "Kandy",
		Items: []safety.Item{{
			Name:    "Temple tour",
			Reviews: []string{"Great guide, call +94 77 123 4567 to book"},
		}},
	}
	report, err := p.Run(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, report.Checks, 1)
	assert.Contains(t, report.Checks[0].Item.Reviews[0], "<PHONE>")
	assert.NotContains(t, report.Checks[0].Item.Reviews[0], "123 4567")
}

func TestSafetyRunBlocked(t *testing.T) {
	p := NewSafety(testSafetyCfg(), nullSources{})

	payload := safety.PlannerPayload{
		City:  "Anywhere",
		Items: []safety.Item{{Name: "weapons showcase tour"}},
	}
	_, err := p.Run(context.Background(), payload)
	assert.ErrorIs(t, err, guard.ErrBlocked)
}

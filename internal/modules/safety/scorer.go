package safety

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"wayfarer/internal/config"
	"wayfarer/internal/lookup"
)

var bargainWords = []string{"cheap", "cheep", "deal", "discount", "supercheep"}

var riskyPayments = []string{"whatsapp", "bank transfer", "gift card", "crypto"}

var cardLikePayments = []string{"card", "credit card", "debit card", "visa", "mastercard", "paypal"}

// Scorer turns vendor items into risk scores using live lookups where
// available. Every signal is additive and the total is clamped to [0,100].
type Scorer struct {
	cfg config.SafetyConfig
	src lookup.Sources
}

func NewScorer(cfg config.SafetyConfig, src lookup.Sources) *Scorer {
	return &Scorer{cfg: cfg, src: src}
}

// ScoreItem computes the risk score, signal list, and safer alternatives
// for one item.
func (s *Scorer) ScoreItem(ctx context.Context, item Item) CheckResult {
	risk := 0
	var signals []string

	if item.URL == "" {
		// No link to inspect. Recorded but not penalized.
		signals = append(signals, "no_url")
	} else {
		if !strings.HasPrefix(strings.ToLower(item.URL), "https://") {
			risk += 10
			signals = append(signals, "No HTTPS on vendor link")
		}
		if malicious, ok := s.src.IsMalicious(ctx, item.URL); ok && malicious {
			risk += 60
			signals = append(signals, "Flagged by Google Safe Browsing")
		}
		domain := lookup.ExtractDomain(item.URL)
		if domain != "" {
			if age, ok := s.src.DomainAgeDays(ctx, domain); ok && age >= 0 && age < s.cfg.YoungDomainDays {
				risk += 20
				signals = append(signals, fmt.Sprintf("Domain registered only %d days ago", age))
			}
			for _, word := range bargainWords {
				if strings.Contains(strings.ToLower(domain), word) {
					risk += 5
					signals = append(signals, "Suspicious bargain keyword in domain")
					break
				}
			}
		}
	}

	if item.Price != nil {
		if median, ok := s.src.MedianPrice(ctx, item.City, item.Name); ok && median > 0 {
			if *item.Price < s.cfg.CheapRatio*median {
				risk += 25
				signals = append(signals, fmt.Sprintf("Too cheap: %.2f vs typical %.2f", *item.Price, median))
			}
		}
	}

	paymentText := strings.ToLower(strings.Join(item.PaymentMethods, " "))
	var badHits []string
	for _, risky := range riskyPayments {
		if strings.Contains(paymentText, risky) {
			badHits = append(badHits, risky)
		}
	}
	if len(badHits) > 0 {
		risk += 30 * len(badHits)
		signals = append(signals, "Risky payment methods: "+strings.Join(badHits, ", "))
	}

	hasCash := strings.Contains(paymentText, "cash")
	hasCard := false
	for _, cardLike := range cardLikePayments {
		if strings.Contains(paymentText, cardLike) {
			hasCard = true
			break
		}
	}
	if hasCash && !hasCard {
		risk += 10
		signals = append(signals, "Cash-only, limited refund and receipt protection")
	}

	if reviewRepeats(item.Reviews) > s.cfg.SpamRepeatThreshold {
		risk += 25
		signals = append(signals, "Reviews look repetitive or unnatural")
	}

	if risk > 100 {
		risk = 100
	}

	result := CheckResult{Item: item, Risk: risk, Signals: signals}
	result.Alternatives = s.alternatives(ctx, item, signals)
	return result
}

// alternatives suggests the venue's official site when one is known, or a
// generic counter-purchase tip when the item tripped a payment or pricing
// signal.
func (s *Scorer) alternatives(ctx context.Context, item Item, signals []string) []string {
	if site, ok := s.src.OfficialWebsite(ctx, item.City, item.Name); ok && site != "" {
		return []string{site}
	}
	for _, sig := range signals {
		if strings.HasPrefix(sig, "No HTTPS") ||
			strings.HasPrefix(sig, "Too cheap") ||
			strings.HasPrefix(sig, "Cash-only") {
			return []string{"Buy at official counter / verified tourism portal"}
		}
	}
	return nil
}

// ScorePayload checks all items concurrently, bounded by the configured
// concurrency limit. Results keep the input order.
func (s *Scorer) ScorePayload(ctx context.Context, payload PlannerPayload) []CheckResult {
	results := make([]CheckResult, len(payload.Items))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.MaxConcurrentChecks
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, item := range payload.Items {
		if item.City == "" {
			item.City = payload.City
		}
		i, item := i, item
		g.Go(func() error {
			results[i] = s.ScoreItem(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// reviewRepeats counts positions where a sliding 6-word window over the
// concatenated review text repeats verbatim at the next offset. Copy-pasted
// shill reviews produce long runs of identical words that genuine reviews
// do not.
func reviewRepeats(reviews []string) int {
	words := strings.Fields(strings.ToLower(strings.Join(reviews, " ")))
	repeats := 0
	for i := 0; i+7 <= len(words); i++ {
		if equalWords(words[i:i+6], words[i+1:i+7]) {
			repeats++
		}
	}
	return repeats
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

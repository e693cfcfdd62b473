package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"dealrater/internal/model"
)

// Classifier maps a market estimate to a discrete deal rating with a
// human-readable explanation. The AI path is attempted first when a client
// is configured; the deterministic path is the fallback on any AI failure
// except capacity/quota exhaustion, which is surfaced to the caller.
type Classifier struct {
	ai AIClient // may be nil
}

// NewClassifier creates a new rating classifier. Pass a nil client to rate
// deterministically only.
func NewClassifier(ai AIClient) *Classifier {
	return &Classifier{ai: ai}
}

// AIEnabled reports whether the AI path can be attempted.
func (c *Classifier) AIEnabled() bool {
	return c.ai != nil && c.ai.IsEnabled()
}

// Classify produces a best-effort DealRating. It never fails except for an
// *AIUnavailableError (HTTP 429/402 from the endpoint); every other AI
// failure falls back to the deterministic calculation using the
// already-computed estimate, without re-querying the store.
func (c *Classifier) Classify(ctx context.Context, target *model.Listing, est *model.MarketEstimate) (*model.DealRating, error) {
	if c.AIEnabled() && est.ComparableCount > 0 {
		rating, err := c.classifyWithAI(ctx, target, est)
		if err == nil {
			return rating, nil
		}

		var unavailable *AIUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}

		var malformed *AIMalformedResponseError
		if errors.As(err, &malformed) {
			log.Printf("AI returned unusable payload (%s), using deterministic rating", malformed.Reason)
		} else {
			log.Printf("AI rating failed: %v, using deterministic rating", err)
		}
	}

	return c.classifyDeterministic(target, est), nil
}

// aiCategories maps the endpoint's rating vocabulary to the canonical one.
var aiCategories = map[string]model.DealCategory{
	"excellent_prix": model.DealExcellent,
	"bon_prix":       model.DealGood,
	"prix_correct":   model.DealFair,
	"prix_eleve":     model.DealPoor,
}

func (c *Classifier) classifyWithAI(ctx context.Context, target *model.Listing, est *model.MarketEstimate) (*model.DealRating, error) {
	resp, err := c.ai.AnalyzeDeal(ctx, dealSystemPrompt, buildDealPrompt(target, est))
	if err != nil {
		return nil, err
	}

	category, ok := aiCategories[strings.TrimSpace(strings.ToLower(resp.Category))]
	if !ok {
		return nil, &AIMalformedResponseError{
			Reason:  fmt.Sprintf("unknown category %q", resp.Category),
			Content: resp.Category,
		}
	}

	return &model.DealRating{
		Category:          category,
		SavingsPercentage: resp.SavingsPercentage,
		MarketAverage:     int(math.Round(est.Average)),
		Explanation:       resp.Explanation,
		Recommendation:    resp.Recommendation,
		ComparableCount:   est.ComparableCount,
		AIPowered:         true,
	}, nil
}

// classifyDeterministic rates the listing without any external dependency.
func (c *Classifier) classifyDeterministic(target *model.Listing, est *model.MarketEstimate) *model.DealRating {
	if est.ComparableCount == 0 {
		return c.rateWithoutComparables(target, est)
	}

	priceDiff := est.AdjustedAverage - target.EffectivePrice()
	savings := int(math.Round(priceDiff / est.AdjustedAverage * 100))

	var category model.DealCategory
	switch {
	case savings >= 15:
		category = model.DealExcellent
	case savings >= 5:
		category = model.DealGood
	case savings >= -5:
		category = model.DealFair
	default:
		category = model.DealPoor
	}

	var explanation string
	if savings >= 0 {
		explanation = fmt.Sprintf(
			"Priced %d%% below the adjusted market average of %d comparable %s %s listings (%s deal).",
			savings, est.ComparableCount, target.Brand, target.Model, category)
	} else {
		explanation = fmt.Sprintf(
			"Priced %d%% above the adjusted market average of %d comparable %s %s listings (%s deal).",
			-savings, est.ComparableCount, target.Brand, target.Model, category)
	}

	return &model.DealRating{
		Category:          category,
		SavingsPercentage: savings,
		MarketAverage:     int(math.Round(est.Average)),
		Explanation:       explanation,
		ComparableCount:   est.ComparableCount,
		AIPowered:         false,
	}
}

// rateWithoutComparables applies a coarse age/mileage heuristic when no
// comparable listings exist in either tier.
func (c *Classifier) rateWithoutComparables(target *model.Listing, est *model.MarketEstimate) *model.DealRating {
	category := model.DealFair
	explanation := fmt.Sprintf(
		"No comparable %s %s listings found; not enough market data to rate this price.",
		target.Brand, target.Model)

	switch {
	case est.VehicleAge == 0 && target.Mileage < 10000:
		category = model.DealGood
		explanation = fmt.Sprintf(
			"No comparable listings found, but a %d %s %s with only %d km is typically in demand.",
			target.Year, target.Brand, target.Model, target.Mileage)
	case est.VehicleAge <= 2 && target.Mileage < 50000:
		category = model.DealFair
		explanation = fmt.Sprintf(
			"No comparable listings found; a %d-year-old vehicle with %d km is likely priced near market.",
			est.VehicleAge, target.Mileage)
	}

	return &model.DealRating{
		Category:          category,
		SavingsPercentage: 0,
		MarketAverage:     0,
		Explanation:       explanation,
		ComparableCount:   0,
		AIPowered:         false,
	}
}

// dealSystemPrompt carries the fixed market guidance. Its banding
// (8%..15% for bon_prix) intentionally differs from the deterministic
// bands, matching the behavior existing evaluations were produced with.
const dealSystemPrompt = `You are a used-vehicle pricing analyst for a West African car marketplace. Prices are in XOF (FCFA). Evaluate whether the target listing is a good deal relative to the comparable market data provided.

Market guidance:
- Vehicles typically lose about 3% of value per year, bottoming out near 70% for older vehicles kept in good condition.
- Typical usage is around 15,000 km per year; mileage well above that lowers value, well below raises it.
- Japanese brands (Toyota, Honda, Nissan) hold value strongly in this market; demand for fuel-efficient models is high in Abidjan and Dakar.

Respond ONLY with a valid JSON object with exactly these fields:
- "category": one of "excellent_prix", "bon_prix", "prix_correct", "prix_eleve"
- "savingsPercentage": integer, positive when the target is cheaper than the adjusted market value, negative when more expensive
- "explanation": one or two sentences justifying the rating
- "recommendation": a short buying recommendation

Banding: savings of 15% or more is "excellent_prix"; 8% to 15% is "bon_prix"; -5% to 8% is "prix_correct"; below -5% is "prix_eleve".`

// buildDealPrompt embeds the target listing and market estimate into the
// user message.
func buildDealPrompt(target *model.Listing, est *model.MarketEstimate) string {
	var b strings.Builder

	priceLabel := "Asking price"
	if target.Kind == model.KindRental {
		priceLabel = "Asking price per day"
	}

	fmt.Fprintf(&b, "Target listing:\n")
	fmt.Fprintf(&b, "- Brand/model: %s %s\n", target.Brand, target.Model)
	fmt.Fprintf(&b, "- Year: %d (age %d years)\n", target.Year, est.VehicleAge)
	fmt.Fprintf(&b, "- Mileage: %d km\n", target.Mileage)
	if target.FuelType != nil {
		fmt.Fprintf(&b, "- Fuel: %s\n", *target.FuelType)
	}
	if target.Transmission != nil {
		fmt.Fprintf(&b, "- Transmission: %s\n", *target.Transmission)
	}
	if target.BodyCondition != nil {
		fmt.Fprintf(&b, "- Body condition: %s\n", *target.BodyCondition)
	}
	fmt.Fprintf(&b, "- %s: %.0f XOF\n", priceLabel, target.EffectivePrice())

	fmt.Fprintf(&b, "\nComparable market data (%d listings):\n", est.ComparableCount)
	fmt.Fprintf(&b, "- Average price: %.0f XOF\n", est.Average)
	fmt.Fprintf(&b, "- Price range: %.0f - %.0f XOF\n", est.Min, est.Max)
	fmt.Fprintf(&b, "- Average year: %.0f\n", est.AvgYear)
	fmt.Fprintf(&b, "- Average mileage: %.0f km\n", est.AvgMileage)

	return b.String()
}

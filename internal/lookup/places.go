package lookup

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// priceLevelToMedian maps a Google price_level (0-4) to a rough USD median
// used only for the "too cheap" sanity check.
var priceLevelToMedian = map[int]float64{
	0: 0.0,   // free
	1: 10.0,  // inexpensive
	2: 25.0,  // moderate
	3: 60.0,  // expensive
	4: 120.0, // very expensive
}

// placeID resolves "name city" to the first matching place.
func (c *Client) placeID(ctx context.Context, city, name string) (string, bool) {
	if c.maps == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	query := strings.TrimSpace(name + " " + city)
	resp, err := c.maps.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		zap.L().Debug("places text search failed", zap.String("query", query), zap.Error(err))
		return "", false
	}
	if len(resp.Results) == 0 {
		return "", false
	}
	return resp.Results[0].PlaceID, true
}

// MedianPrice derives a median-ish price from the place's price level.
func (c *Client) MedianPrice(ctx context.Context, city, name string) (float64, bool) {
	id, ok := c.placeID(ctx, city, name)
	if !ok {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	resp, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: id,
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskPriceLevel},
	})
	if err != nil {
		zap.L().Debug("place details failed", zap.String("place_id", id), zap.Error(err))
		return 0, false
	}
	median, found := priceLevelToMedian[resp.PriceLevel]
	if !found {
		return 0, false
	}
	return median, true
}

// OfficialWebsite returns the place's registered website, when Google has one.
func (c *Client) OfficialWebsite(ctx context.Context, city, name string) (string, bool) {
	id, ok := c.placeID(ctx, city, name)
	if !ok {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	resp, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: id,
		Fields:  []maps.PlaceDetailsFieldMask{maps.PlaceDetailsFieldMaskWebsite},
	})
	if err != nil {
		zap.L().Debug("place details failed", zap.String("place_id", id), zap.Error(err))
		return "", false
	}
	if resp.Website == "" {
		return "", false
	}
	return resp.Website, true
}

package domain

import (
	"context"
	"log/slog"
)

// EnrichWithSiteName labels a product with the place at the radar grid
// centre. If geocoder is nil or the lookup fails, the product is returned
// with SiteGeoSource set accordingly (graceful degradation).
func EnrichWithSiteName(ctx context.Context, product GridProduct, geocoder Geocoder, logger *slog.Logger) GridProduct {
	if geocoder == nil || product.Metadata == nil {
		return product
	}

	lat, okLat := product.Metadata.Float(KeyLatCentre)
	lon, okLon := product.Metadata.Float(KeyLonCentre)
	if !okLat || !okLon {
		product.SiteGeoSource = "original"
		return product
	}

	result, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"product_id", product.ID,
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		product.SiteGeoSource = "failed"
		return product
	}
	if result.FormattedAddress == "" {
		product.SiteGeoSource = "original"
		return product
	}

	product.SiteAddress = result.FormattedAddress
	product.SitePlaceName = result.PlaceName
	product.SiteConfidence = result.Confidence
	product.SiteGeoSource = "reverse"
	return product
}

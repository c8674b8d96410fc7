package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kiranshivaraju/fieldplanner/internal/cache"
	"github.com/kiranshivaraju/fieldplanner/pkg/models"
)

const (
	metersPerMile = 1609.344

	// annotateConcurrency bounds in-flight estimates for one worksheet.
	annotateConcurrency = 4
)

// Estimator turns pairs of free-text addresses into travel estimates.
// Provider failures never surface as errors: the result is absent and
// carries a FailureReason.
type Estimator struct {
	geocoder    Geocoder
	router      Router
	cache       cache.Cache
	cacheTTL    time.Duration
	mapsBaseURL string
}

// NewEstimator creates an Estimator. ca may be nil to disable the estimate cache.
func NewEstimator(geocoder Geocoder, router Router, ca cache.Cache, cacheTTL time.Duration, mapsBaseURL string) *Estimator {
	return &Estimator{
		geocoder:    geocoder,
		router:      router,
		cache:       ca,
		cacheTTL:    cacheTTL,
		mapsBaseURL: mapsBaseURL,
	}
}

// Estimate resolves both addresses, routes between them and formats the result.
func (e *Estimator) Estimate(ctx context.Context, origin, destination string) models.EstimateResult {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return absent(models.ReasonEmptyAddress)
	}

	fromQuery, toQuery := GeocodeQuery(origin), GeocodeQuery(destination)
	if len(fromQuery) < minQueryLength || len(toQuery) < minQueryLength {
		slog.Debug("travel estimate skipped", "reason", models.ReasonUnresolvable,
			"origin", origin, "destination", destination)
		return absent(models.ReasonUnresolvable)
	}

	key := cache.EstimateKey(origin, destination)
	if est, ok := e.cached(ctx, key); ok {
		return models.EstimateResult{Estimate: est}
	}

	var from, to *models.Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.geocoder.Geocode(gctx, fromQuery)
		from = p
		return err
	})
	g.Go(func() error {
		p, err := e.geocoder.Geocode(gctx, toQuery)
		to = p
		return err
	})
	if err := g.Wait(); err != nil {
		return e.fail(models.ReasonGeocodeFailed, origin, destination, err)
	}
	if from == nil || to == nil {
		return e.fail(models.ReasonNoGeocodeResult, origin, destination, nil)
	}

	leg, err := e.router.Route(ctx, from.Coordinate, to.Coordinate)
	if err != nil {
		return e.fail(models.ReasonRouteFailed, origin, destination, err)
	}
	if leg == nil {
		return e.fail(models.ReasonNoRoute, origin, destination, nil)
	}

	est := &models.RouteEstimate{
		DurationText: FormatDuration(leg.DurationSeconds),
		DistanceText: FormatDistance(leg.DistanceMeters),
		MapsURL:      MapsURL(e.mapsBaseURL, origin, destination),
	}
	e.store(ctx, key, est)
	return models.EstimateResult{Estimate: est}
}

// ReverseGeocode renders a coordinate as a short postal address.
// It falls back to the provider's display name, then to the raw coordinate.
func (e *Estimator) ReverseGeocode(ctx context.Context, coord models.Coordinate) string {
	fallback := fmt.Sprintf("%.5f, %.5f", coord.Lat, coord.Lon)

	parts, err := e.geocoder.Reverse(ctx, coord)
	if err != nil {
		slog.Warn("reverse geocode failed", "lat", coord.Lat, "lon", coord.Lon, "error", err)
		return fallback
	}

	if addr := joinAddress(parts); addr != "" {
		return addr
	}
	if parts.DisplayName != "" {
		return parts.DisplayName
	}
	return fallback
}

// Annotate estimates travel between each pair of adjacent jobs.
// Estimates that resolve after ctx is done are discarded and reported as cancelled.
func (e *Estimator) Annotate(ctx context.Context, jobs []models.JobRecord) []models.TravelLeg {
	if len(jobs) < 2 {
		return []models.TravelLeg{}
	}

	legs := make([]models.TravelLeg, len(jobs)-1)
	var g errgroup.Group
	g.SetLimit(annotateConcurrency)
	for i := range legs {
		legs[i] = models.TravelLeg{
			FromIndex: i,
			ToIndex:   i + 1,
			Result:    absent(models.ReasonCancelled),
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := e.Estimate(ctx, jobs[i].Address, jobs[i+1].Address)
			if ctx.Err() != nil {
				return nil
			}
			legs[i].Result = res
			return nil
		})
	}
	_ = g.Wait()
	return legs
}

// FormatDuration renders seconds as whole minutes.
func FormatDuration(seconds float64) string {
	return fmt.Sprintf("%d min", int(math.Round(seconds/60)))
}

// FormatDistance renders meters as miles to one decimal place.
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f mi", meters/metersPerMile)
}

func (e *Estimator) cached(ctx context.Context, key string) (*models.RouteEstimate, bool) {
	if e.cache == nil {
		return nil, false
	}
	data, found, err := e.cache.Get(ctx, key)
	if err != nil {
		slog.Debug("estimate cache read failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var est models.RouteEstimate
	if err := json.Unmarshal(data, &est); err != nil {
		if err := e.cache.Delete(ctx, key); err != nil {
			slog.Debug("estimate cache evict failed", "error", err)
		}
		return nil, false
	}
	return &est, true
}

func (e *Estimator) store(ctx context.Context, key string, est *models.RouteEstimate) {
	if e.cache == nil {
		return
	}
	data, err := json.Marshal(est)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, data, e.cacheTTL); err != nil {
		slog.Debug("estimate cache write failed", "error", err)
	}
}

func (e *Estimator) fail(reason models.FailureReason, origin, destination string, err error) models.EstimateResult {
	attrs := []any{"reason", reason, "origin", origin, "destination", destination}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	slog.Warn("travel estimate unavailable", attrs...)
	return absent(reason)
}

func absent(reason models.FailureReason) models.EstimateResult {
	return models.EstimateResult{Reason: reason}
}

func joinAddress(p models.AddressParts) string {
	locality := p.City
	if locality == "" {
		locality = p.Town
	}
	if locality == "" {
		locality = p.Village
	}

	var out []string
	for _, s := range []string{
		strings.TrimSpace(p.HouseNumber + " " + p.Road),
		locality,
		p.Postcode,
	} {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}

package models

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a forward-geocoding hit.
type Place struct {
	Coordinate  Coordinate `json:"coordinate"`
	DisplayName string     `json:"displayName"`
}

// RouteLeg is the raw routing answer for one driving route.
type RouteLeg struct {
	DurationSeconds float64 `json:"durationSeconds"`
	DistanceMeters  float64 `json:"distanceMeters"`
}

// AddressParts are the reverse-geocoding components a provider may return.
type AddressParts struct {
	DisplayName string
	HouseNumber string
	Road        string
	City        string
	Town        string
	Village     string
	Postcode    string
}

// RouteEstimate is the user-facing travel estimate between two addresses.
type RouteEstimate struct {
	DurationText string `json:"durationText"`
	DistanceText string `json:"distanceText"`
	MapsURL      string `json:"mapsUrl"`
}

// FailureReason explains why an estimate is absent.
type FailureReason string

const (
	ReasonNone            FailureReason = ""
	ReasonEmptyAddress    FailureReason = "empty_address"
	ReasonUnresolvable    FailureReason = "unresolvable_address"
	ReasonGeocodeFailed   FailureReason = "geocode_failed"
	ReasonNoGeocodeResult FailureReason = "no_geocode_result"
	ReasonRouteFailed     FailureReason = "route_failed"
	ReasonNoRoute         FailureReason = "no_route"
	ReasonCancelled       FailureReason = "cancelled"
)

// EstimateResult carries either a complete estimate or the reason there is none.
// Estimate is never partially populated.
type EstimateResult struct {
	Estimate *RouteEstimate `json:"estimate"`
	Reason   FailureReason  `json:"reason,omitempty"`
}

// OK reports whether an estimate is present.
func (r EstimateResult) OK() bool { return r.Estimate != nil }

// TravelLeg annotates the trip between two adjacent jobs.
type TravelLeg struct {
	FromIndex int            `json:"fromIndex"`
	ToIndex   int            `json:"toIndex"`
	Result    EstimateResult `json:"result"`
}

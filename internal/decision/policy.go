// Package decision holds the bike-or-transit policy: a pure, deterministic
// mapping from the pair of upstream fetch outcomes to a recommendation and
// a human-readable rationale. It performs no I/O; keep every threshold and
// tie-break here so the rule stays centralized and tunable.
package decision

import (
	"fmt"

	"github.com/ndelorme/commute-advisor/internal/model"
)

// Recommendation is the final answer handed to the commuter.
type Recommendation string

const (
	RecommendBike    Recommendation = "BIKE"
	RecommendTransit Recommendation = "TRANSIT"
	RecommendUnknown Recommendation = "UNKNOWN"
)

// Decide maps the two upstream outcomes to a recommendation. It is total:
// every combination of success, timeout and error on either side yields
// exactly one answer.
//
// Tie-break: weather severity takes precedence over bike availability.
// Severe conditions always mean transit, no matter how many bikes are
// docked nearby.
func Decide(weather model.Outcome[model.WeatherSnapshot], stations model.Outcome[model.StationSnapshot]) (Recommendation, string) {
	switch {
	case !weather.Failed() && !stations.Failed():
		return decideFull(weather.Value, stations.Value)
	case !weather.Failed():
		return decideWeatherOnly(weather.Value)
	case !stations.Failed():
		return decideStationsOnly(stations.Value)
	default:
		rationale := fmt.Sprintf("no data available: weather failed (%s), stations failed (%s)",
			weather.Reason, stations.Reason)
		return RecommendUnknown, rationale
	}
}

func decideFull(weather model.WeatherSnapshot, stations model.StationSnapshot) (Recommendation, string) {
	severity := weather.Severity()
	conditions := model.DescribeWeatherCode(weather.WeatherCode)

	if severity >= model.SeverityHigh {
		return RecommendTransit, fmt.Sprintf("take transit: %s (%s severity) makes biking unpleasant",
			conditions, severity)
	}

	if !stations.AnyBikeAvailable() {
		return RecommendTransit, fmt.Sprintf("take transit: weather is fine (%s) but no nearby station has an available bike",
			conditions)
	}

	return RecommendBike, fmt.Sprintf("bike: %s and bikes are available nearby", conditions)
}

func decideWeatherOnly(weather model.WeatherSnapshot) (Recommendation, string) {
	severity := weather.Severity()
	conditions := model.DescribeWeatherCode(weather.WeatherCode)

	if severity >= model.SeverityHigh {
		return RecommendTransit, fmt.Sprintf("take transit: %s (%s severity); station availability unknown",
			conditions, severity)
	}

	return RecommendBike, fmt.Sprintf("bike: %s, but station availability unknown", conditions)
}

func decideStationsOnly(stations model.StationSnapshot) (Recommendation, string) {
	if stations.AnyBikeAvailable() {
		return RecommendBike, "bike: bikes available nearby, but weather unknown"
	}
	return RecommendTransit, "take transit: no nearby station has an available bike; weather unknown"
}

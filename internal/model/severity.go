package model

// Severity groups WMO weather codes into tiers that drive the bike/transit
// decision.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeveritySevere:
		return "severe"
	default:
		return "unknown"
	}
}

// ClassifyWeatherCode maps an Open-Meteo WMO weather code onto a severity
// tier. The seven code bands:
//
//	0        clear sky
//	1-3      mainly clear / partly cloudy / overcast
//	45,48    fog
//	51-57    drizzle
//	61-67    rain
//	71-77    snow
//	80-86    showers
//	95-99    thunderstorm
//
// Codes outside the table are treated as high severity rather than clear.
func ClassifyWeatherCode(code int) Severity {
	switch {
	case code >= 0 && code <= 3:
		return SeverityLow
	case code == 45 || code == 48:
		return SeverityMedium
	case code >= 51 && code <= 57:
		return SeverityHigh
	case code >= 61 && code <= 67:
		return SeverityHigh
	case code >= 71 && code <= 77:
		return SeverityHigh
	case code >= 80 && code <= 86:
		return SeverityHigh
	case code >= 95 && code <= 99:
		return SeveritySevere
	default:
		return SeverityHigh
	}
}

// DescribeWeatherCode returns a short human-readable label for a WMO code,
// used when building rationales.
func DescribeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code >= 1 && code <= 3:
		return "partly cloudy"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code >= 85 && code <= 86:
		return "snow showers"
	case code >= 95 && code <= 99:
		return "thunderstorm"
	default:
		return "unclassified conditions"
	}
}

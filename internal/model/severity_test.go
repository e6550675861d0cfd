package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWeatherCode(t *testing.T) {
	tests := []struct {
		name string
		code int
		want Severity
	}{
		{"clear sky", 0, SeverityLow},
		{"partly cloudy", 2, SeverityLow},
		{"overcast", 3, SeverityLow},
		{"fog", 45, SeverityMedium},
		{"depositing rime fog", 48, SeverityMedium},
		{"light drizzle", 51, SeverityHigh},
		{"freezing drizzle", 57, SeverityHigh},
		{"moderate rain", 63, SeverityHigh},
		{"rain", 61, SeverityHigh},
		{"snow", 73, SeverityHigh},
		{"snow grains", 77, SeverityHigh},
		{"rain showers", 80, SeverityHigh},
		{"snow showers", 86, SeverityHigh},
		{"thunderstorm", 95, SeveritySevere},
		{"thunderstorm with hail", 99, SeveritySevere},
		{"unknown code is conservative", 42, SeverityHigh},
		{"negative code is conservative", -1, SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWeatherCode(tt.code))
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "low", SeverityLow.String())
	assert.Equal(t, "medium", SeverityMedium.String())
	assert.Equal(t, "high", SeverityHigh.String())
	assert.Equal(t, "severe", SeveritySevere.String())
}

func TestDescribeWeatherCode(t *testing.T) {
	assert.Equal(t, "clear sky", DescribeWeatherCode(0))
	assert.Equal(t, "fog", DescribeWeatherCode(45))
	assert.Equal(t, "rain", DescribeWeatherCode(61))
	assert.Equal(t, "thunderstorm", DescribeWeatherCode(95))
	assert.Equal(t, "unclassified conditions", DescribeWeatherCode(42))
}

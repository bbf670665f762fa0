// Package provider fetches live weather from an upstream service.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrUpstream         = errors.New("weather upstream failed")
)

// Report is one fetch: current conditions plus a daily forecast.
type Report struct {
	Location  string
	Latitude  float64
	Longitude float64
	Observed  time.Time

	Temperature float64 // °C
	Humidity    float64 // %
	Rainfall    float64 // mm
	WindSpeed   float64 // km/h
	Condition   string

	Forecast []entities.ForecastDay
}

type Provider interface {
	Name() string
	Fetch(ctx context.Context, location string, days int) (*Report, error)
}

// Condition maps a WMO weather interpretation code onto the five
// conditions the API reports.
func Condition(code int) string {
	switch {
	case code <= 1:
		return entities.ConditionSunny
	case code == 2:
		return entities.ConditionPartlyCloudy
	case code == 3, code == 45, code == 48:
		return entities.ConditionCloudy
	case code >= 95:
		return entities.ConditionStormy
	default: // drizzle, rain, snow and showers
		return entities.ConditionRainy
	}
}

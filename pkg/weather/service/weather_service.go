package service

import (
	"context"
	"errors"
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

var (
	// ErrUnavailable: the provider failed and nothing is stored for the location.
	ErrUnavailable = errors.New("weather service unavailable")
	// ErrNoData: no provider is configured and nothing is stored for the location.
	ErrNoData       = errors.New("no weather data for location")
	ErrUnknownPlace = errors.New("unknown location")
	ErrBadRange     = errors.New("start date is after end date")
)

// MaxForecastDays is what one provider fetch asks for; shorter forecasts are
// cut from it.
const MaxForecastDays = 14

type WeatherService interface {
	// Observe returns the freshest observation for a location, fetching
	// through the cache when a provider is configured.
	Observe(ctx context.Context, location string) (*entities.WeatherData, error)
	Historical(ctx context.Context, location string, from, to time.Time) ([]entities.WeatherData, error)
}

// FetchObserver is told about every provider fetch.
type FetchObserver interface {
	ObserveWeatherFetch(provider string, err error, d time.Duration)
}

package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/provider"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/service"
)

type weatherSvc struct {
	p     provider.Provider // nil when live weather is disabled
	r     repository.WeatherRepository
	cache *cache.Cache
	obs   service.FetchObserver
	log   *zap.Logger
}

// New builds the weather service. p may be nil, in which case only stored
// observations are served.
func New(p provider.Provider, r repository.WeatherRepository, ttl time.Duration, obs service.FetchObserver, log *zap.Logger) service.WeatherService {
	if log == nil {
		log = zap.NewNop()
	}
	return &weatherSvc{p: p, r: r, cache: cache.New(ttl, 2*ttl), obs: obs, log: log}
}

func (s *weatherSvc) Observe(ctx context.Context, location string) (*entities.WeatherData, error) {
	key := entities.LocationKey(location)
	if v, ok := s.cache.Get(key); ok {
		return v.(*entities.WeatherData), nil
	}
	if s.p == nil {
		return s.stored(ctx, key, service.ErrNoData)
	}

	start := time.Now()
	rep, err := s.p.Fetch(ctx, location, service.MaxForecastDays)
	if s.obs != nil {
		s.obs.ObserveWeatherFetch(s.p.Name(), err, time.Since(start))
	}
	if err != nil {
		s.log.Warn("weather fetch failed", zap.String("location", location), zap.Error(err))
		if errors.Is(err, provider.ErrLocationNotFound) {
			return s.stored(ctx, key, service.ErrUnknownPlace)
		}
		return s.stored(ctx, key, fmt.Errorf("%w: %v", service.ErrUnavailable, err))
	}

	w := &entities.WeatherData{
		Location:    location,
		LocationKey: key,
		Latitude:    rep.Latitude,
		Longitude:   rep.Longitude,
		Timestamp:   rep.Observed,
		Temperature: rep.Temperature,
		Humidity:    rep.Humidity,
		Rainfall:    rep.Rainfall,
		WindSpeed:   rep.WindSpeed,
		Condition:   rep.Condition,
		Forecast:    rep.Forecast,
	}
	if err := s.r.Create(ctx, w); err != nil {
		s.log.Error("store weather observation", zap.String("location", location), zap.Error(err))
	}
	s.cache.SetDefault(key, w)
	return w, nil
}

// stored falls back to the newest saved observation, or miss when there is none.
func (s *weatherSvc) stored(ctx context.Context, key string, miss error) (*entities.WeatherData, error) {
	w, err := s.r.Latest(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, miss
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *weatherSvc) Historical(ctx context.Context, location string, from, to time.Time) ([]entities.WeatherData, error) {
	if from.After(to) {
		return nil, service.ErrBadRange
	}
	return s.r.Between(ctx, entities.LocationKey(location), from, to)
}

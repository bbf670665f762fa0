package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/crop/service"
)

// Observer yields the current weather for a location.
type Observer interface {
	Observe(ctx context.Context, location string) (*entities.WeatherData, error)
}

type cropSvc struct {
	r       repository.CropRepository
	weather Observer
	log     *zap.Logger
}

// New builds the crop service; weather may be nil to skip temperature filtering.
func New(r repository.CropRepository, weather Observer, log *zap.Logger) service.CropService {
	if log == nil {
		log = zap.NewNop()
	}
	return &cropSvc{r: r, weather: weather, log: log}
}

func (s *cropSvc) Recommend(ctx context.Context, location, season string) ([]entities.Crop, error) {
	var months []time.Month
	if strings.TrimSpace(season) != "" {
		ms, ok := crop.Months(season)
		if !ok {
			return nil, fmt.Errorf("%w: %q", service.ErrUnknownSeason, season)
		}
		months = ms
	}

	all, err := s.r.All(ctx)
	if err != nil {
		return nil, err
	}

	temp, haveTemp := s.temperature(ctx, location)
	out := []entities.Crop{}
	for _, c := range all {
		if months != nil && !crop.PlantedIn(c.PlantingSeasons, months) {
			continue
		}
		if haveTemp && c.OptimalConditions != nil && !c.OptimalConditions.Temperature.Contains(temp) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *cropSvc) temperature(ctx context.Context, location string) (float64, bool) {
	if s.weather == nil || strings.TrimSpace(location) == "" {
		return 0, false
	}
	w, err := s.weather.Observe(ctx, location)
	if err != nil {
		s.log.Info("recommending without weather", zap.String("location", location), zap.Error(err))
		return 0, false
	}
	return w.Temperature, true
}

func (s *cropSvc) Details(ctx context.Context, id string) (*entities.Crop, error) {
	return s.r.FindByID(ctx, id)
}

func (s *cropSvc) List(ctx context.Context, limit, offset int) ([]entities.Crop, int64, error) {
	return s.r.Page(ctx, limit, offset)
}

func (s *cropSvc) Create(ctx context.Context, c *entities.Crop) (*entities.Crop, error) {
	c.ID = ""
	c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
	exists, err := s.Exists(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", service.ErrDuplicateName, c.Name)
	}
	if err := s.r.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cropSvc) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.r.FindByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	}
	return false, err
}

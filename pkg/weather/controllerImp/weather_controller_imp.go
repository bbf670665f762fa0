package controllerImp

import (
	"context"
	"errors"
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/controller"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/service"
)

type WeatherCtrl struct{ s service.WeatherService }

func New(s service.WeatherService) *WeatherCtrl { return &WeatherCtrl{s: s} }

var _ controller.WeatherController = (*WeatherCtrl)(nil)

func (h *WeatherCtrl) Register(r *rpc.Router) {
	g := r.Group("weather")
	g.Query("getForecast", "weather.getForecast", rpc.Bind(h.GetForecast))
	g.Query("getCurrentWeather", "weather.getCurrentWeather", rpc.Bind(h.GetCurrentWeather))
	g.Query("getHistorical", "weather.getHistorical", rpc.Bind(h.GetHistorical))
}

type ForecastInput struct {
	Location string `json:"location"`
	Days     int    `json:"days"`
}

func (in *ForecastInput) ApplyDefaults() {
	if in.Days == 0 {
		in.Days = 7
	}
}

type LocationInput struct {
	Location string `json:"location"`
}

type HistoricalInput struct {
	Location  string    `json:"location"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Current struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
	WindSpeed   float64 `json:"windSpeed"`
}

type Forecast struct {
	Location    string                 `json:"location"`
	Current     Current                `json:"current"`
	Forecast    []entities.ForecastDay `json:"forecast"`
	LastUpdated time.Time              `json:"lastUpdated"`
}

type CurrentWeather struct {
	Location string `json:"location"`
	Current
	Timestamp time.Time `json:"timestamp"`
}

type Historical struct {
	Location string                 `json:"location"`
	Data     []entities.WeatherData `json:"data"`
}

func (h *WeatherCtrl) GetForecast(ctx context.Context, _ auth.Context, in ForecastInput) (*Forecast, error) {
	w, err := h.s.Observe(ctx, in.Location)
	if err != nil {
		return nil, mapErr(err)
	}
	days := w.Forecast
	if len(days) > in.Days {
		days = days[:in.Days]
	}
	if days == nil {
		days = []entities.ForecastDay{}
	}
	return &Forecast{Location: in.Location, Current: current(w), Forecast: days, LastUpdated: w.Timestamp}, nil
}

func (h *WeatherCtrl) GetCurrentWeather(ctx context.Context, _ auth.Context, in LocationInput) (*CurrentWeather, error) {
	w, err := h.s.Observe(ctx, in.Location)
	if err != nil {
		return nil, mapErr(err)
	}
	return &CurrentWeather{Location: in.Location, Current: current(w), Timestamp: w.Timestamp}, nil
}

func (h *WeatherCtrl) GetHistorical(ctx context.Context, _ auth.Context, in HistoricalInput) (*Historical, error) {
	data, err := h.s.Historical(ctx, in.Location, in.StartDate, in.EndDate)
	if err != nil {
		return nil, mapErr(err)
	}
	return &Historical{Location: in.Location, Data: data}, nil
}

func current(w *entities.WeatherData) Current {
	return Current{Temperature: w.Temperature, Humidity: w.Humidity, Condition: w.Condition, WindSpeed: w.WindSpeed}
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, service.ErrBadRange):
		return rpc.NewError(rpc.CodeBadRequest, "startDate must not be after endDate")
	case errors.Is(err, service.ErrUnavailable):
		return rpc.Wrap(rpc.CodeServiceUnavailable, "Weather service is unavailable", err)
	case errors.Is(err, service.ErrNoData), errors.Is(err, service.ErrUnknownPlace):
		return rpc.Wrap(rpc.CodeNotFound, "No weather data for this location", err)
	}
	return err
}

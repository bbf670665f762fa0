package controllerImp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/service"
)

type stubService struct {
	w   *entities.WeatherData
	err error
}

func (s stubService) Observe(context.Context, string) (*entities.WeatherData, error) {
	return s.w, s.err
}

func (s stubService) Historical(_ context.Context, _ string, from, to time.Time) ([]entities.WeatherData, error) {
	if from.After(to) {
		return nil, service.ErrBadRange
	}
	return []entities.WeatherData{*s.w}, nil
}

func observation() *entities.WeatherData {
	w := &entities.WeatherData{Location: "Lusaka", Timestamp: time.Now().UTC(), Temperature: 30, Humidity: 40, Condition: entities.ConditionSunny, WindSpeed: 9}
	for i := 0; i < service.MaxForecastDays; i++ {
		w.Forecast = append(w.Forecast, entities.ForecastDay{Date: time.Now().AddDate(0, 0, i)})
	}
	return w
}

func newRouter(s service.WeatherService) *rpc.Router {
	r := rpc.NewRouter(schema.MustNew())
	New(s).Register(r)
	return r
}

func call(r *rpc.Router, path, in string) (any, error) {
	return r.Call(context.Background(), auth.Anonymous(), path, rpc.KindQuery, json.RawMessage(in))
}

func code(t *testing.T, err error) rpc.Code {
	t.Helper()
	var e *rpc.Error
	require.ErrorAs(t, err, &e)
	return e.Code
}

func TestForecastDays(t *testing.T) {
	r := newRouter(stubService{w: observation()})

	out, err := call(r, "weather.getForecast", `{"location":"Lusaka"}`)
	require.NoError(t, err)
	f := out.(*Forecast)
	assert.Len(t, f.Forecast, 7)
	assert.Equal(t, 30.0, f.Current.Temperature)

	out, err = call(r, "weather.getForecast", `{"location":"Lusaka","days":14}`)
	require.NoError(t, err)
	assert.Len(t, out.(*Forecast).Forecast, 14)

	for _, in := range []string{`{"location":"Lusaka","days":0}`, `{"location":"Lusaka","days":15}`, `{"location":""}`} {
		_, err = call(r, "weather.getForecast", in)
		assert.Equal(t, rpc.CodeBadRequest, code(t, err), in)
	}
}

func TestCurrentWeather(t *testing.T) {
	out, err := call(newRouter(stubService{w: observation()}), "weather.getCurrentWeather", `{"location":"Lusaka"}`)
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"temperature":30`)
	assert.Contains(t, string(b), `"condition":"sunny"`)
	assert.Contains(t, string(b), `"timestamp"`)
}

func TestWeatherErrors(t *testing.T) {
	_, err := call(newRouter(stubService{err: service.ErrUnavailable}), "weather.getCurrentWeather", `{"location":"X"}`)
	assert.Equal(t, rpc.CodeServiceUnavailable, code(t, err))

	_, err = call(newRouter(stubService{err: service.ErrNoData}), "weather.getForecast", `{"location":"X"}`)
	assert.Equal(t, rpc.CodeNotFound, code(t, err))
}

func TestHistoricalRange(t *testing.T) {
	r := newRouter(stubService{w: observation()})
	out, err := call(r, "weather.getHistorical", `{"location":"Lusaka","startDate":"2026-01-01T00:00:00Z","endDate":"2026-02-01T00:00:00Z"}`)
	require.NoError(t, err)
	assert.Len(t, out.(*Historical).Data, 1)

	_, err = call(r, "weather.getHistorical", `{"location":"Lusaka","startDate":"2026-02-01T00:00:00Z","endDate":"2026-01-01T00:00:00Z"}`)
	assert.Equal(t, rpc.CodeBadRequest, code(t, err))

	_, err = call(r, "weather.getHistorical", `{"location":"Lusaka","startDate":"yesterday","endDate":"2026-01-01T00:00:00Z"}`)
	assert.Equal(t, rpc.CodeBadRequest, code(t, err))
}

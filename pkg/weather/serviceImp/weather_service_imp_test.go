package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/provider"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/repository"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/repositoryImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/weather/service"
)

type fakeProvider struct {
	calls int
	err   error
	temp  float64
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(_ context.Context, loc string, days int) (*provider.Report, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	rep := &provider.Report{Location: loc, Observed: time.Now().UTC().Truncate(time.Second), Temperature: f.temp, Condition: entities.ConditionSunny}
	for i := 0; i < days; i++ {
		rep.Forecast = append(rep.Forecast, entities.ForecastDay{Date: time.Now().AddDate(0, 0, i), Temperature: f.temp})
	}
	return rep, nil
}

type fetchLog struct{ errs []error }

func (l *fetchLog) ObserveWeatherFetch(_ string, err error, _ time.Duration) {
	l.errs = append(l.errs, err)
}

func newRepo(t *testing.T) repository.WeatherRepository {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	return repositoryImp.New(db)
}

func TestObserveCachesAndStores(t *testing.T) {
	p := &fakeProvider{temp: 28}
	r := newRepo(t)
	obs := &fetchLog{}
	s := New(p, r, time.Minute, obs, nil)
	ctx := context.Background()

	w, err := s.Observe(ctx, "Lusaka")
	require.NoError(t, err)
	assert.Equal(t, 28.0, w.Temperature)
	assert.Len(t, w.Forecast, service.MaxForecastDays)

	_, err = s.Observe(ctx, " lusaka ")
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Len(t, obs.errs, 1)

	stored, err := r.Latest(ctx, "lusaka")
	require.NoError(t, err)
	assert.Equal(t, w.ID, stored.ID)
}

func TestObserveFallsBackToStored(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &entities.WeatherData{Location: "Kasama", Timestamp: time.Now().UTC(), Temperature: 22, Condition: entities.ConditionRainy}))

	s := New(&fakeProvider{err: fmt.Errorf("%w: boom", provider.ErrUpstream)}, r, time.Minute, nil, nil)
	w, err := s.Observe(ctx, "Kasama")
	require.NoError(t, err)
	assert.Equal(t, 22.0, w.Temperature)

	_, err = s.Observe(ctx, "Mongu")
	assert.ErrorIs(t, err, service.ErrUnavailable)
}

func TestObserveWithoutProvider(t *testing.T) {
	s := New(nil, newRepo(t), time.Minute, nil, nil)
	_, err := s.Observe(context.Background(), "Chipata")
	assert.ErrorIs(t, err, service.ErrNoData)
}

func TestObserveUnknownPlace(t *testing.T) {
	s := New(&fakeProvider{err: provider.ErrLocationNotFound}, newRepo(t), time.Minute, nil, nil)
	_, err := s.Observe(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, service.ErrUnknownPlace))
}

func TestHistorical(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Create(ctx, &entities.WeatherData{Location: "Choma", Timestamp: base.AddDate(0, 0, i), Temperature: float64(20 + i)}))
	}
	require.NoError(t, r.Create(ctx, &entities.WeatherData{Location: "Mansa", Timestamp: base}))

	s := New(nil, r, time.Minute, nil, nil)
	data, err := s.Historical(ctx, "choma", base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.Equal(t, 21.0, data[0].Temperature)
	assert.Equal(t, 23.0, data[2].Temperature)

	_, err = s.Historical(ctx, "choma", base.AddDate(0, 0, 3), base)
	assert.ErrorIs(t, err, service.ErrBadRange)
}

package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

const forecastBody = `{
  "current": {"time":"2026-10-17T10:00","temperature_2m":29.5,"relative_humidity_2m":41,
              "precipitation":0,"weather_code":2,"wind_speed_10m":12.3},
  "daily": {"time":["2026-10-17","2026-10-18"],"weather_code":[2,95],
            "temperature_2m_max":[31.2,27.8],"precipitation_probability_max":[10,null]}
}`

func newTestClient() *OpenMeteo {
	o := NewOpenMeteo()
	o.RetryDelay = 0
	return o
}

func TestFetch(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	httpmock.RegisterResponder("GET", GeocodingURL, httpmock.NewStringResponder(http.StatusOK,
		`{"results":[{"name":"Lusaka","latitude":-15.4,"longitude":28.28,"country_code":"US"},
		             {"name":"Lusaka","latitude":-15.4167,"longitude":28.2833,"country_code":"ZM"}]}`))
	httpmock.RegisterResponder("GET", ForecastURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "-15.4167", req.URL.Query().Get("latitude"))
		assert.Equal(t, "14", req.URL.Query().Get("forecast_days"))
		return httpmock.NewStringResponse(http.StatusOK, forecastBody), nil
	})

	rep, err := newTestClient().Fetch(context.Background(), "Lusaka, Zambia", 14)
	require.NoError(t, err)
	assert.Equal(t, "Lusaka", rep.Location)
	assert.Equal(t, 29.5, rep.Temperature)
	assert.Equal(t, entities.ConditionPartlyCloudy, rep.Condition)
	assert.Equal(t, 2026, rep.Observed.Year())
	require.Len(t, rep.Forecast, 2)
	assert.Equal(t, 10.0, rep.Forecast[0].ProbabilityOfRain)
	assert.Equal(t, entities.ConditionStormy, rep.Forecast[1].Condition)
	assert.Zero(t, rep.Forecast[1].ProbabilityOfRain)
}

func TestFetchUnknownPlace(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("GET", GeocodingURL, httpmock.NewStringResponder(http.StatusOK, `{}`))

	_, err := newTestClient().Fetch(context.Background(), "Atlantis", 7)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestFetchRetries(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("GET", GeocodingURL, httpmock.NewStringResponder(http.StatusBadGateway, `upstream down`))

	_, err := newTestClient().Fetch(context.Background(), "Ndola", 7)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

func TestFetchRecoversAfterRetry(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("GET", GeocodingURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, ``).
			Then(httpmock.NewStringResponder(http.StatusOK, `{"results":[{"name":"Ndola","latitude":-12.96,"longitude":28.63,"country_code":"ZM"}]}`)))
	httpmock.RegisterResponder("GET", ForecastURL, httpmock.NewStringResponder(http.StatusOK, forecastBody))

	rep, err := newTestClient().Fetch(context.Background(), "Ndola", 7)
	require.NoError(t, err)
	assert.Equal(t, "Ndola", rep.Location)
}

func TestCondition(t *testing.T) {
	cases := map[int]string{
		0:  entities.ConditionSunny,
		1:  entities.ConditionSunny,
		2:  entities.ConditionPartlyCloudy,
		3:  entities.ConditionCloudy,
		45: entities.ConditionCloudy,
		61: entities.ConditionRainy,
		81: entities.ConditionRainy,
		96: entities.ConditionStormy,
	}
	for code, want := range cases {
		assert.Equal(t, want, Condition(code), "code %d", code)
	}
}

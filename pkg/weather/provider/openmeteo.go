package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

const (
	GeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	ForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

type OpenMeteo struct {
	GeocodingURL string
	ForecastURL  string
	Attempts     int
	RetryDelay   time.Duration

	hc *http.Client
}

func NewOpenMeteo() *OpenMeteo {
	return &OpenMeteo{
		GeocodingURL: GeocodingURL,
		ForecastURL:  ForecastURL,
		Attempts:     3,
		RetryDelay:   500 * time.Millisecond,
		hc:           &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *OpenMeteo) Name() string { return "openmeteo" }

type geoResult struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
}

type forecastResp struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		Rain        float64 `json:"precipitation"`
		Code        int     `json:"weather_code"`
		Wind        float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		Time     []string   `json:"time"`
		Code     []int      `json:"weather_code"`
		TempMax  []float64  `json:"temperature_2m_max"`
		RainProb []*float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

func (o *OpenMeteo) Fetch(ctx context.Context, location string, days int) (*Report, error) {
	place, err := o.geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(place.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(place.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,weather_code,wind_speed_10m")
	q.Set("daily", "weather_code,temperature_2m_max,precipitation_probability_max")
	q.Set("forecast_days", strconv.Itoa(days))
	q.Set("timezone", "UTC")
	var fr forecastResp
	if err := o.getJSON(ctx, o.ForecastURL+"?"+q.Encode(), &fr); err != nil {
		return nil, err
	}

	rep := &Report{
		Location:    place.Name,
		Latitude:    place.Latitude,
		Longitude:   place.Longitude,
		Observed:    time.Now().UTC().Truncate(time.Second),
		Temperature: fr.Current.Temperature,
		Humidity:    fr.Current.Humidity,
		Rainfall:    fr.Current.Rain,
		WindSpeed:   fr.Current.Wind,
		Condition:   Condition(fr.Current.Code),
	}
	if t, err := time.Parse("2006-01-02T15:04", fr.Current.Time); err == nil {
		rep.Observed = t.UTC()
	}
	for i, d := range fr.Daily.Time {
		day, err := time.Parse("2006-01-02", d)
		if err != nil || i >= len(fr.Daily.Code) || i >= len(fr.Daily.TempMax) {
			continue
		}
		fd := entities.ForecastDay{Date: day, Temperature: fr.Daily.TempMax[i], Condition: Condition(fr.Daily.Code[i])}
		if i < len(fr.Daily.RainProb) && fr.Daily.RainProb[i] != nil {
			fd.ProbabilityOfRain = *fr.Daily.RainProb[i]
		}
		rep.Forecast = append(rep.Forecast, fd)
	}
	return rep, nil
}

// geocode resolves a place name, preferring matches inside Zambia.
func (o *OpenMeteo) geocode(ctx context.Context, location string) (*geoResult, error) {
	name := strings.TrimSpace(strings.Split(location, ",")[0])
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "10")
	q.Set("language", "en")
	q.Set("format", "json")
	var gr struct {
		Results []geoResult `json:"results"`
	}
	if err := o.getJSON(ctx, o.GeocodingURL+"?"+q.Encode(), &gr); err != nil {
		return nil, err
	}
	if len(gr.Results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
	}
	for i := range gr.Results {
		if gr.Results[i].CountryCode == "ZM" {
			return &gr.Results[i], nil
		}
	}
	return &gr.Results[0], nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, u string, out any) error {
	attempts := o.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.RetryDelay):
			}
		}
		last = o.once(ctx, u, out)
		if last == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrUpstream, last)
}

func (o *OpenMeteo) once(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := o.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("GET %s: %s %s", req.URL.Path, res.Status, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

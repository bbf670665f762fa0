package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConditionSunny        = "sunny"
	ConditionCloudy       = "cloudy"
	ConditionRainy        = "rainy"
	ConditionStormy       = "stormy"
	ConditionPartlyCloudy = "partly-cloudy"
)

type ForecastDay struct {
	Date              time.Time `json:"date"`
	Temperature       float64   `json:"temperature"`
	Condition         string    `json:"condition"`
	ProbabilityOfRain float64   `json:"probabilityOfRain"`
}

// WeatherData is one stored observation for a location, with the forecast
// that was current when it was taken.
type WeatherData struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	Location    string        `json:"location"`
	LocationKey string        `gorm:"index" json:"-"` // lower-cased, trimmed Location
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	Timestamp   time.Time     `gorm:"index" json:"timestamp"`
	Temperature float64       `json:"temperature"` // °C
	Humidity    float64       `json:"humidity"`    // %
	Rainfall    float64       `json:"rainfall"`    // mm
	WindSpeed   float64       `json:"windSpeed"`   // km/h
	Condition   string        `json:"condition"`
	Forecast    []ForecastDay `gorm:"serializer:json" json:"forecast,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w *WeatherData) BeforeCreate(*gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.LocationKey == "" {
		w.LocationKey = LocationKey(w.Location)
	}
	return nil
}

// LocationKey folds a place name so "Lusaka " and "lusaka" share observations.
func LocationKey(loc string) string {
	return strings.ToLower(strings.Join(strings.Fields(loc), " "))
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the closed range.
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

type OptimalConditions struct {
	Temperature Range    `json:"temperature"` // °C
	Rainfall    Range    `json:"rainfall"`    // mm per season
	SoilType    []string `json:"soilType"`
}

type Crop struct {
	ID                string             `gorm:"primaryKey;size:36" json:"id"`
	Name              string             `gorm:"index" json:"name"`
	Description       string             `json:"description,omitempty"`
	OptimalConditions *OptimalConditions `gorm:"serializer:json" json:"optimalConditions,omitempty"`
	PlantingSeasons   []string           `gorm:"serializer:json" json:"plantingSeasons"`
	HarvestingPeriod  string             `json:"harvestingPeriod,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Crop) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Crop) AfterFind(*gorm.DB) error {
	if c.PlantingSeasons == nil {
		c.PlantingSeasons = []string{}
	}
	if c.OptimalConditions != nil && c.OptimalConditions.SoilType == nil {
		c.OptimalConditions.SoilType = []string{}
	}
	return nil
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Disease struct {
	ID                   string   `gorm:"primaryKey;size:36" json:"id"`
	Name                 string   `gorm:"index" json:"name"`
	CommonName           string   `json:"commonName,omitempty"`
	Description          string   `json:"description,omitempty"`
	Causative            string   `json:"causative,omitempty"` // pathogen, e.g. Puccinia sorghi
	CommonSymptoms       []string `gorm:"serializer:json" json:"commonSymptoms"`
	AffectedCrops        []string `gorm:"serializer:json" json:"affectedCrops"`
	ManagementStrategies []string `gorm:"serializer:json" json:"managementStrategies"`
	PreventiveMeasures   []string `gorm:"serializer:json" json:"preventiveMeasures,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Disease) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (d *Disease) AfterFind(*gorm.DB) error {
	d.CommonSymptoms = nonNil(d.CommonSymptoms)
	d.AffectedCrops = nonNil(d.AffectedCrops)
	d.ManagementStrategies = nonNil(d.ManagementStrategies)
	return nil
}

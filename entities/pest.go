package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Pest struct {
	ID                   string   `gorm:"primaryKey;size:36" json:"id"`
	Name                 string   `gorm:"index" json:"name"`
	CommonName           string   `json:"commonName,omitempty"`
	Description          string   `json:"description,omitempty"`
	CommonSymptoms       []string `gorm:"serializer:json" json:"commonSymptoms"`
	AffectedCrops        []string `gorm:"serializer:json" json:"affectedCrops"`
	ManagementStrategies []string `gorm:"serializer:json" json:"managementStrategies"`
	BiologicalControl    []string `gorm:"serializer:json" json:"biologicalControl,omitempty"`
	ChemicalControl      []string `gorm:"serializer:json" json:"chemicalControl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Pest) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Pest) AfterFind(*gorm.DB) error {
	p.CommonSymptoms = nonNil(p.CommonSymptoms)
	p.AffectedCrops = nonNil(p.AffectedCrops)
	p.ManagementStrategies = nonNil(p.ManagementStrategies)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

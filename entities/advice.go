package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackHelpful    = "helpful"
	FeedbackNotHelpful = "not_helpful"
)

// Advice is one question/answer exchange with the advisory model.
type Advice struct {
	ID               string   `gorm:"primaryKey;size:36" json:"id"`
	UserID           string   `gorm:"index" json:"userId"`
	QueryText        string   `json:"queryText"`
	ResponseText     string   `json:"responseText"`
	Language         string   `json:"language,omitempty"`
	SourcedDocuments []string `gorm:"serializer:json" json:"sourcedDocuments"`
	Feedback         string   `json:"feedback,omitempty"` // helpful|not_helpful

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Advice) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SourcedDocuments == nil {
		a.SourcedDocuments = []string{}
	}
	return nil
}

func (a *Advice) AfterFind(*gorm.DB) error {
	a.SourcedDocuments = nonNil(a.SourcedDocuments)
	return nil
}

package affliction

import (
	"time"

	"github.com/Chisowa/Farm-Link-Zambia/entities"
)

// Record is a catalogue entity that can be identified by symptoms.
type Record interface {
	entities.Pest | entities.Disease
}

// Kind describes how one catalogue is exposed: its procedure group, the id
// field of its details input and the key identification results go under.
type Kind[T Record] struct {
	Group     string // pests
	Noun      string // Pest
	IDField   string // pestId
	ResultKey string // possiblePests
	Entity    string // schema entity, pest

	Candidate func(*T) Candidate
	// Reset clears server-assigned fields on create input.
	Reset func(*T)
}

var Pests = Kind[entities.Pest]{
	Group: "pests", Noun: "Pest", IDField: "pestId", ResultKey: "possiblePests", Entity: "pest",
	Candidate: func(p *entities.Pest) Candidate {
		return Candidate{ID: p.ID, Name: p.Name, CommonName: p.CommonName, Symptoms: p.CommonSymptoms, Crops: p.AffectedCrops}
	},
	Reset: func(p *entities.Pest) {
		p.ID = ""
		p.CreatedAt, p.UpdatedAt = time.Time{}, time.Time{}
	},
}

var Diseases = Kind[entities.Disease]{
	Group: "diseases", Noun: "Disease", IDField: "diseaseId", ResultKey: "possibleDiseases", Entity: "disease",
	Candidate: func(d *entities.Disease) Candidate {
		return Candidate{ID: d.ID, Name: d.Name, CommonName: d.CommonName, Symptoms: d.CommonSymptoms, Crops: d.AffectedCrops}
	},
	Reset: func(d *entities.Disease) {
		d.ID = ""
		d.CreatedAt, d.UpdatedAt = time.Time{}, time.Time{}
	},
}

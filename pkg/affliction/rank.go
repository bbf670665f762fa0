// Package affliction ranks pests and diseases against reported symptoms and
// serves both catalogues through one set of procedures.
package affliction

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxMatches caps an identification result.
const MaxMatches = 5

const (
	symptomWeight = 0.8
	cropWeight    = 0.2
)

// Candidate is the part of a pest or disease that identification looks at.
type Candidate struct {
	ID         string
	Name       string
	CommonName string
	Symptoms   []string
	Crops      []string
}

type Match struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CommonName string  `json:"commonName,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Rank scores every candidate by the share of reported symptoms it explains
// and whether it attacks crop. Candidates explaining no symptom are dropped.
func Rank(cands []Candidate, symptoms []string, crop string) []Match {
	reported := normalise(symptoms)
	if len(reported) == 0 {
		return []Match{}
	}
	crop = strings.ToLower(strings.TrimSpace(crop))

	out := []Match{}
	for _, c := range cands {
		known := normalise(c.Symptoms)
		hit := 0
		for _, s := range reported {
			if matchesAny(s, known) {
				hit++
			}
		}
		if hit == 0 {
			continue
		}
		score := symptomWeight * float64(hit) / float64(len(reported))
		if crop != "" && contains(normalise(c.Crops), crop) {
			score += cropWeight
		}
		out = append(out, Match{ID: c.ID, Name: c.Name, CommonName: c.CommonName, Confidence: round2(score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > MaxMatches {
		out = out[:MaxMatches]
	}
	return out
}

// matchesAny treats "wilting" and "wilting of lower leaves" as the same
// symptom. Matching is on whole words, so "a" does not match "leaf spot".
func matchesAny(s string, known []string) bool {
	ps := " " + s + " "
	for _, k := range known {
		pk := " " + k + " "
		if strings.Contains(pk, ps) || strings.Contains(ps, pk) {
			return true
		}
	}
	return false
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func normalise(xs []string) []string {
	out := make([]string, 0, len(xs))
	seen := map[string]bool{}
	for _, x := range xs {
		x = strings.Join(strings.FieldsFunc(strings.ToLower(x), notWordRune), " ")
		if x == "" || seen[x] {
			continue
		}
		seen[x] = true
		out = append(out, x)
	}
	return out
}

func notWordRune(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }

func round2(v float64) float64 {
	v = math.Round(v*100) / 100
	return math.Min(1, math.Max(0, v))
}

package crop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonths(t *testing.T) {
	ms, ok := Months("Rainy")
	assert.True(t, ok)
	assert.Len(t, ms, 6)

	ms, ok = Months(" march ")
	assert.True(t, ok)
	assert.Equal(t, []time.Month{time.March}, ms)

	ms, ok = Months("sep")
	assert.True(t, ok)
	assert.Equal(t, []time.Month{time.September}, ms)

	_, ok = Months("monsoon")
	assert.False(t, ok)
	_, ok = Months("")
	assert.False(t, ok)
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, SeasonRainy, SeasonOf(time.January))
	assert.Equal(t, SeasonCoolDry, SeasonOf(time.July))
	assert.Equal(t, SeasonHotDry, SeasonOf(time.October))
}

func TestPlantedIn(t *testing.T) {
	rainy, _ := Months(SeasonRainy)
	assert.True(t, PlantedIn([]string{"November", "December"}, rainy))
	assert.False(t, PlantedIn([]string{"June"}, rainy))
	assert.False(t, PlantedIn([]string{"whenever"}, rainy))
	assert.False(t, PlantedIn(nil, rainy))
}

package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/affliction"
	afflictionRepo "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/repositoryImp"
	afflictionSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/affliction/serviceImp"
	cropRepo "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/repositoryImp"
	cropSvc "github.com/Chisowa/Farm-Link-Zambia/pkg/crop/serviceImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

type fixture struct {
	im    *Importer
	crops interface {
		List(ctx context.Context, limit, offset int) ([]entities.Crop, int64, error)
	}
	pests interface {
		Identify(ctx context.Context, symptoms []string, crop string) ([]affliction.Match, error)
	}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	crops := cropSvc.New(cropRepo.New(db), nil, nil)
	pests := afflictionSvc.New(afflictionRepo.New[entities.Pest](db), affliction.Pests)
	diseases := afflictionSvc.New(afflictionRepo.New[entities.Disease](db), affliction.Diseases)
	return fixture{
		im:    NewImporter(schema.MustNew(), crops, pests, diseases, nil),
		crops: crops,
		pests: pests,
	}
}

func TestDefaultCatalogue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := Default()
	require.NoError(t, err)

	rep, err := f.im.Import(ctx, doc)
	require.NoError(t, err)
	assert.Empty(t, rep.Invalid)
	assert.Equal(t, len(doc.Crops), rep.Crops.Created)
	assert.Equal(t, len(doc.Pests), rep.Pests.Created)
	assert.Equal(t, len(doc.Diseases), rep.Diseases.Created)

	again, err := f.im.Import(ctx, doc)
	require.NoError(t, err)
	assert.Zero(t, again.Crops.Created)
	assert.Equal(t, len(doc.Crops), again.Crops.Skipped)

	_, total, err := f.crops.List(ctx, 100, 0)
	require.NoError(t, err)
	assert.EqualValues(t, len(doc.Crops), total)

	ms, err := f.pests.Identify(ctx, []string{"wilting"}, "Corn")
	require.NoError(t, err)
	require.NotEmpty(t, ms)
	assert.Equal(t, 1.0, ms[0].Confidence)
}

func TestInvalidRowsAreReported(t *testing.T) {
	doc, err := ParseYAML(strings.NewReader(`
crops:
  - name: ""
    plantingSeasons: []
  - name: Millet
    plantingSeasons: [December]
pests:
  - name: Locust
`))
	require.NoError(t, err)

	rep, err := newFixture(t).im.Import(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Crops.Created)
	require.Len(t, rep.Invalid, 2)
	assert.Equal(t, RowError{Entity: "crop", Row: 1, Err: rep.Invalid[0].Err}, rep.Invalid[0])
	assert.Equal(t, "pest", rep.Invalid[1].Entity)
	assert.Equal(t, "Locust", rep.Invalid[1].Name)
}

func TestParseYAMLEmpty(t *testing.T) {
	doc, err := ParseYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, doc.Crops)
}

func workbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	_, err := x.NewSheet(SheetCrops)
	require.NoError(t, err)
	_, err = x.NewSheet(SheetPests)
	require.NoError(t, err)
	require.NoError(t, x.DeleteSheet("Sheet1"))

	rows := map[string][][]any{
		SheetCrops: {
			{"name", "plantingSeasons", "temperatureMin", "temperatureMax", "rainfallMin", "rainfallMax", "soilType"},
			{"Rice", "December; January", 20, 35, 1000, 2000, "clay;loam"},
			{},
			{"Millet", "December"},
		},
		SheetPests: {
			{"name", "commonName", "commonSymptoms", "affectedCrops", "managementStrategies"},
			{"Quelea quelea", "Red-billed quelea", "Grain loss; Stripped panicles", "Sorghum;Rice"},
		},
	}
	for sheet, rs := range rows {
		for i, r := range rs {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, x.SetSheetRow(sheet, cell, &r))
		}
	}
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	doc, err := ParseWorkbook(workbook(t))
	require.NoError(t, err)

	require.Len(t, doc.Crops, 2)
	rice := doc.Crops[0]
	assert.Equal(t, "Rice", rice["name"])
	assert.Equal(t, []string{"December", "January"}, rice["plantingSeasons"])
	cond := rice["optimalConditions"].(map[string]any)
	assert.Equal(t, map[string]any{"min": 20.0, "max": 35.0}, cond["temperature"])
	assert.Equal(t, []string{"clay", "loam"}, cond["soilType"])
	assert.NotContains(t, doc.Crops[1], "optimalConditions")

	require.Len(t, doc.Pests, 1)
	assert.Equal(t, []string{}, doc.Pests[0]["managementStrategies"])
	assert.Empty(t, doc.Diseases)

	rep, err := newFixture(t).im.Import(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, rep.Invalid)
	assert.Equal(t, 2, rep.Crops.Created)
	assert.Equal(t, 1, rep.Pests.Created)
}

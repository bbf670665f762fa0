package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names read from a catalogue workbook. Missing sheets are empty sections.
const (
	SheetCrops    = "Crops"
	SheetPests    = "Pests"
	SheetDiseases = "Diseases"
)

// ListSep separates items inside a list cell.
const ListSep = ";"

var listColumns = map[string]bool{
	"plantingSeasons": true, "soilType": true,
	"commonSymptoms": true, "affectedCrops": true, "managementStrategies": true,
	"biologicalControl": true, "chemicalControl": true, "preventiveMeasures": true,
}

// Crop sheets flatten optimalConditions into these columns.
var conditionColumns = map[string][2]string{
	"temperatureMin": {"temperature", "min"},
	"temperatureMax": {"temperature", "max"},
	"rainfallMin":    {"rainfall", "min"},
	"rainfallMax":    {"rainfall", "max"},
}

// ParseWorkbook reads the Crops, Pests and Diseases sheets. The first row of
// each sheet names the fields; blank rows are ignored.
func ParseWorkbook(r io.Reader) (*Document, error) {
	x, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer x.Close()

	present := map[string]bool{}
	for _, s := range x.GetSheetList() {
		present[s] = true
	}
	read := func(sheet string) ([]map[string]any, error) {
		if !present[sheet] {
			return nil, nil
		}
		rows, err := x.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		return sheetRecords(rows, sheet == SheetCrops), nil
	}

	doc := &Document{}
	if doc.Crops, err = read(SheetCrops); err != nil {
		return nil, err
	}
	if doc.Pests, err = read(SheetPests); err != nil {
		return nil, err
	}
	if doc.Diseases, err = read(SheetDiseases); err != nil {
		return nil, err
	}
	return doc, nil
}

func sheetRecords(rows [][]string, crops bool) []map[string]any {
	if len(rows) < 2 {
		return nil
	}
	head := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		head[i] = strings.TrimSpace(h)
	}

	var out []map[string]any
	for _, row := range rows[1:] {
		rec := map[string]any{}
		cond := map[string]any{}
		filled := false
		for i, col := range head {
			if col == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			filled = filled || cell != ""
			switch {
			case crops && conditionColumns[col] != [2]string{}:
				if cell == "" {
					continue
				}
				path := conditionColumns[col]
				rng, _ := cond[path[0]].(map[string]any)
				if rng == nil {
					rng = map[string]any{}
					cond[path[0]] = rng
				}
				rng[path[1]] = number(cell)
			case crops && col == "soilType":
				if cell != "" {
					cond["soilType"] = splitList(cell)
				}
			case listColumns[col]:
				rec[col] = splitList(cell)
			case cell != "":
				rec[col] = cell
			}
		}
		if !filled {
			continue
		}
		if len(cond) > 0 {
			if _, ok := cond["soilType"]; !ok {
				cond["soilType"] = []string{}
			}
			rec["optimalConditions"] = cond
		}
		out = append(out, rec)
	}
	return out
}

func splitList(cell string) []string {
	out := []string{}
	for _, p := range strings.Split(cell, ListSep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// number keeps unparsable cells as text so validation reports them.
func number(cell string) any {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

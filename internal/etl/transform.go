package etl

import (
	"fmt"
	"math"
	"time"

	"github.com/ivanovicnikola/shifts-etl/internal/models"
	"github.com/ivanovicnikola/shifts-etl/internal/shiftsapi"
)

// Bundle holds one page's worth of typed rows, in input order.
type Bundle struct {
	Shifts               []models.Shift
	Breaks               []models.Break
	Allowances           []models.Allowance
	AwardInterpretations []models.AwardInterpretation
}

// CostFunc derives a shift's cost from its raw record. The formula is a
// business rule, so it is pluggable; SumComponentCosts is the default.
type CostFunc func(raw shiftsapi.RawShift) (float64, error)

// SumComponentCosts is the production cost rule: the sum of the shift's
// allowance costs and award-interpretation costs, rounded to 4 decimal places.
func SumComponentCosts(raw shiftsapi.RawShift) (float64, error) {
	var sum float64
	for _, key := range []string{"allowances", "award_interpretations"} {
		items, err := nestedRecords(raw, key)
		if err != nil {
			return 0, err
		}
		for i, item := range items {
			cost, err := numberField(item, "cost")
			if err != nil {
				return 0, fmt.Errorf("%s[%d]: %w", key, i, err)
			}
			sum += cost
		}
	}
	return math.Round(sum*1e4) / 1e4, nil
}

// Source-key → storage-column mappings. The mapping is total: a source field
// that does not appear here is dropped, so upstream renames and additions
// never reach the store.
var (
	shiftColumns = map[string]string{
		"id":     "shift_id",
		"date":   "shift_date",
		"start":  "shift_start",
		"finish": "shift_finish",
	}
	breakColumns = map[string]string{
		"id":     "break_id",
		"start":  "break_start",
		"finish": "break_finish",
		"paid":   "is_paid",
	}
	allowanceColumns = map[string]string{
		"id":    "allowance_id",
		"value": "allowance_value",
		"cost":  "allowance_cost",
	}
	awardColumns = map[string]string{
		"id":    "award_id",
		"date":  "award_date",
		"units": "award_units",
		"cost":  "award_cost",
	}
)

// Transform turns one page of raw records into typed rows for the four entity
// collections. A malformed record fails the whole page.
func Transform(records []shiftsapi.RawShift, cost CostFunc) (*Bundle, error) {
	if cost == nil {
		cost = SumComponentCosts
	}

	b := &Bundle{}
	for i, raw := range records {
		shift, err := transformShift(raw, cost)
		if err != nil {
			return nil, fmt.Errorf("shift record %d: %w", i, err)
		}
		b.Shifts = append(b.Shifts, shift)

		breaks, err := transformBreaks(raw, shift.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("shift record %d: %w", i, err)
		}
		b.Breaks = append(b.Breaks, breaks...)

		allowances, err := transformAllowances(raw, shift.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("shift record %d: %w", i, err)
		}
		b.Allowances = append(b.Allowances, allowances...)

		awards, err := transformAwards(raw, shift.ShiftID)
		if err != nil {
			return nil, fmt.Errorf("shift record %d: %w", i, err)
		}
		b.AwardInterpretations = append(b.AwardInterpretations, awards...)
	}
	return b, nil
}

func transformShift(raw shiftsapi.RawShift, cost CostFunc) (models.Shift, error) {
	rec := mapColumns(raw, shiftColumns)

	id, err := stringField(rec, "shift_id")
	if err != nil {
		return models.Shift{}, err
	}
	date, err := stringField(rec, "shift_date")
	if err != nil {
		return models.Shift{}, err
	}
	start, err := timeField(rec, "shift_start")
	if err != nil {
		return models.Shift{}, err
	}
	finish, err := timeField(rec, "shift_finish")
	if err != nil {
		return models.Shift{}, err
	}
	c, err := cost(raw)
	if err != nil {
		return models.Shift{}, fmt.Errorf("shift cost: %w", err)
	}

	return models.Shift{
		ShiftID:     id,
		ShiftDate:   date,
		ShiftStart:  start,
		ShiftFinish: finish,
		ShiftCost:   c,
	}, nil
}

func transformBreaks(raw shiftsapi.RawShift, shiftID string) ([]models.Break, error) {
	items, err := nestedRecords(raw, "breaks")
	if err != nil {
		return nil, err
	}

	out := make([]models.Break, 0, len(items))
	for i, item := range items {
		rec := mapColumns(item, breakColumns)

		id, err := stringField(rec, "break_id")
		if err != nil {
			return nil, fmt.Errorf("breaks[%d]: %w", i, err)
		}
		start, err := timeField(rec, "break_start")
		if err != nil {
			return nil, fmt.Errorf("breaks[%d]: %w", i, err)
		}
		finish, err := timeField(rec, "break_finish")
		if err != nil {
			return nil, fmt.Errorf("breaks[%d]: %w", i, err)
		}
		paid, err := boolField(rec, "is_paid")
		if err != nil {
			return nil, fmt.Errorf("breaks[%d]: %w", i, err)
		}

		out = append(out, models.Break{
			BreakID:     id,
			ShiftID:     shiftID,
			BreakStart:  start,
			BreakFinish: finish,
			IsPaid:      paid,
		})
	}
	return out, nil
}

func transformAllowances(raw shiftsapi.RawShift, shiftID string) ([]models.Allowance, error) {
	items, err := nestedRecords(raw, "allowances")
	if err != nil {
		return nil, err
	}

	out := make([]models.Allowance, 0, len(items))
	for i, item := range items {
		rec := mapColumns(item, allowanceColumns)

		id, err := stringField(rec, "allowance_id")
		if err != nil {
			return nil, fmt.Errorf("allowances[%d]: %w", i, err)
		}
		value, err := numberField(rec, "allowance_value")
		if err != nil {
			return nil, fmt.Errorf("allowances[%d]: %w", i, err)
		}
		cost, err := numberField(rec, "allowance_cost")
		if err != nil {
			return nil, fmt.Errorf("allowances[%d]: %w", i, err)
		}

		out = append(out, models.Allowance{
			AllowanceID:    id,
			ShiftID:        shiftID,
			AllowanceValue: value,
			AllowanceCost:  cost,
		})
	}
	return out, nil
}

func transformAwards(raw shiftsapi.RawShift, shiftID string) ([]models.AwardInterpretation, error) {
	items, err := nestedRecords(raw, "award_interpretations")
	if err != nil {
		return nil, err
	}

	out := make([]models.AwardInterpretation, 0, len(items))
	for i, item := range items {
		rec := mapColumns(item, awardColumns)

		id, err := stringField(rec, "award_id")
		if err != nil {
			return nil, fmt.Errorf("award_interpretations[%d]: %w", i, err)
		}
		date, err := stringField(rec, "award_date")
		if err != nil {
			return nil, fmt.Errorf("award_interpretations[%d]: %w", i, err)
		}
		units, err := numberField(rec, "award_units")
		if err != nil {
			return nil, fmt.Errorf("award_interpretations[%d]: %w", i, err)
		}
		cost, err := numberField(rec, "award_cost")
		if err != nil {
			return nil, fmt.Errorf("award_interpretations[%d]: %w", i, err)
		}

		out = append(out, models.AwardInterpretation{
			AwardID:    id,
			ShiftID:    shiftID,
			AwardDate:  date,
			AwardUnits: units,
			AwardCost:  cost,
		})
	}
	return out, nil
}

// mapColumns renames source keys to storage column names. Keys without a
// mapping entry are dropped.
func mapColumns(rec map[string]any, mapping map[string]string) map[string]any {
	out := make(map[string]any, len(mapping))
	for key, val := range rec {
		if col, ok := mapping[key]; ok {
			out[col] = val
		}
	}
	return out
}

// nestedRecords reads an optional nested array of objects off a raw record.
func nestedRecords(raw map[string]any, key string) ([]map[string]any, error) {
	val, ok := raw[key]
	if !ok || val == nil {
		return nil, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not an array", key)
	}

	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d] is not an object", key, i)
		}
		out = append(out, rec)
	}
	return out, nil
}

func stringField(rec map[string]any, col string) (string, error) {
	val, ok := rec[col]
	if !ok || val == nil {
		return "", fmt.Errorf("missing field %q", col)
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", col)
	}
	return s, nil
}

func numberField(rec map[string]any, col string) (float64, error) {
	val, ok := rec[col]
	if !ok || val == nil {
		return 0, fmt.Errorf("missing field %q", col)
	}
	f, ok := val.(float64) // encoding/json decodes all numbers as float64
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", col)
	}
	return f, nil
}

func boolField(rec map[string]any, col string) (bool, error) {
	val, ok := rec[col]
	if !ok || val == nil {
		return false, fmt.Errorf("missing field %q", col)
	}
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("field %q is not a boolean", col)
	}
	return b, nil
}

// timeField converts a milliseconds-since-epoch field to an absolute UTC
// time. Milliseconds are truncated toward zero when converting to seconds.
func timeField(rec map[string]any, col string) (time.Time, error) {
	ms, err := numberField(rec, col)
	if err != nil {
		return time.Time{}, err
	}
	if ms <= 0 {
		return time.Time{}, fmt.Errorf("field %q is not a positive timestamp", col)
	}
	return time.Unix(int64(ms)/1000, 0).UTC(), nil
}

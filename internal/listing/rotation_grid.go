package listing

import "farm-service/internal/model"

type TargetKind string

const (
	TargetPivot TargetKind = "pivot"
	TargetField TargetKind = "field"
)

// GridCell is one (target, year) slot; Rotation is nil for an empty cell.
type GridCell struct {
	Year     int
	Rotation *model.CropRotation
}

type GridRow struct {
	Kind  TargetKind
	ID    uint
	Name  string
	Color string
	Cells []GridCell
}

// RotationGrid lays out pivots then fields against years.
func RotationGrid(pivots []model.Pivot, fields []model.Field, rotations []model.CropRotation, years []int) []GridRow {
	type key struct {
		kind TargetKind
		id   uint
		year int
	}
	byKey := make(map[key]*model.CropRotation, len(rotations))
	for i := range rotations {
		r := &rotations[i]
		switch {
		case r.PivotID != nil:
			k := key{TargetPivot, *r.PivotID, r.Year}
			if _, dup := byKey[k]; !dup {
				byKey[k] = r
			}
		case r.FieldID != nil:
			k := key{TargetField, *r.FieldID, r.Year}
			if _, dup := byKey[k]; !dup {
				byKey[k] = r
			}
		}
	}

	row := func(kind TargetKind, id uint, name, color string) GridRow {
		cells := make([]GridCell, len(years))
		for i, y := range years {
			cells[i] = GridCell{Year: y, Rotation: byKey[key{kind, id, y}]}
		}
		return GridRow{Kind: kind, ID: id, Name: name, Color: color, Cells: cells}
	}

	rows := make([]GridRow, 0, len(pivots)+len(fields))
	for _, p := range pivots {
		rows = append(rows, row(TargetPivot, p.ID, p.LogicalName, p.Color))
	}
	for _, f := range fields {
		rows = append(rows, row(TargetField, f.ID, f.LogicalName, f.Color))
	}
	return rows
}

// RecentYears returns n consecutive years ending at last.
func RecentYears(last, n int) []int {
	if n <= 0 {
		return nil
	}
	years := make([]int, n)
	for i := range years {
		years[i] = last - n + 1 + i
	}
	return years
}

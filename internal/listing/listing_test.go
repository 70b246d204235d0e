package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"farm-service/internal/model"
)

type row struct {
	id     uint
	name   string
	sector string
	center bool
}

func rowName(r row) string   { return r.name }
func rowSector(r row) string { return r.sector }
func rowID(r row) uint       { return r.id }

var rows = []row{
	{1, "P10", "Sector 2", true},
	{2, "p02", "Sector 1", true},
	{3, "Alpha", "", false},
	{4, "P01", "Sector 2", true},
}

func names(rs []row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}

func TestFilterIgnoresCase(t *testing.T) {
	is := is.New(t)

	is.Equal(names(Filter(rows, "p0", rowName)), []string{"p02", "P01"})
	is.Equal(len(Filter(rows, "  ", rowName)), 4)
	is.Equal(len(Filter(rows, "zzz", rowName)), 0)
}

func TestSort(t *testing.T) {
	is := is.New(t)

	is.Equal(names(Sort(rows, rowName, false)), []string{"Alpha", "P01", "p02", "P10"})
	is.Equal(names(Sort(rows, rowName, true)), []string{"P10", "p02", "P01", "Alpha"})
	is.Equal(names(rows), []string{"P10", "p02", "Alpha", "P01"})
}

func TestGroupByKeepsFirstSeenOrder(t *testing.T) {
	is := is.New(t)

	groups := GroupBy(rows, rowSector)
	is.Equal(len(groups), 3)
	is.Equal(groups[0].Name, "Sector 2")
	is.Equal(names(groups[0].Items), []string{"P10", "P01"})
	is.Equal(groups[1].Name, "Sector 1")
	is.Equal(groups[2].Name, UnknownGroup)
}

func TestExpansionToggle(t *testing.T) {
	is := is.New(t)

	e := Expansion{}
	is.True(!e.Expanded("Sector 1"))
	is.True(e.Toggle("Sector 1"))
	is.True(e.Expanded("Sector 1"))
	is.True(!e.Toggle("Sector 1"))
}

func TestConfirmDeleteRemovesRowAndLayer(t *testing.T) {
	is := is.New(t)

	b := NewBoard(rows, rowID, func(r row) bool { return r.center })
	is.True(b.RequestDelete(2))

	var deleted uint
	err := b.Confirm(context.Background(), func(_ context.Context, id uint) error {
		deleted = id
		return nil
	})
	is.NoErr(err)
	is.Equal(deleted, uint(2))
	is.Equal(names(b.Rows()), []string{"P10", "Alpha", "P01"})
	is.True(!b.HasLayer(2))
	is.True(b.HasLayer(1))
}

func TestCancelDeleteLeavesBoardUntouched(t *testing.T) {
	is := is.New(t)

	b := NewBoard(rows, rowID, nil)
	is.True(b.RequestDelete(1))
	b.Cancel()

	_, pending := b.Pending()
	is.True(!pending)
	is.Equal(len(b.Rows()), 4)
	is.True(b.HasLayer(1))

	err := b.Confirm(context.Background(), func(context.Context, uint) error { return nil })
	is.True(errors.Is(err, ErrNoPendingDelete))
	is.Equal(len(b.Rows()), 4)
}

func TestFailedDeleteKeepsRow(t *testing.T) {
	is := is.New(t)

	b := NewBoard(rows, rowID, nil)
	is.True(b.RequestDelete(4))

	boom := errors.New("500")
	err := b.Confirm(context.Background(), func(context.Context, uint) error { return boom })
	is.True(errors.Is(err, boom))
	is.Equal(len(b.Rows()), 4)
	is.True(b.HasLayer(4))
	is.True(!b.RequestDelete(99))
}

func TestRotationGrid(t *testing.T) {
	is := is.New(t)

	pivotID, fieldID := uint(1), uint(5)
	pivots := []model.Pivot{{ID: 1, LogicalName: "P01", Color: "#FF0000"}}
	fields := []model.Field{{ID: 5, LogicalName: "F1"}}
	rotations := []model.CropRotation{
		{ID: 10, PivotID: &pivotID, Year: 2024, Crop: "corn"},
		{ID: 11, FieldID: &fieldID, Year: 2025, Crop: "wheat"},
		{ID: 12, PivotID: &pivotID, Year: 2019, Crop: "barley"},
	}

	grid := RotationGrid(pivots, fields, rotations, RecentYears(2025, 3))
	is.Equal(len(grid), 2)

	is.Equal(grid[0].Kind, TargetPivot)
	is.Equal(grid[0].Cells[0].Year, 2023)
	is.True(grid[0].Cells[0].Rotation == nil)
	is.Equal(grid[0].Cells[1].Rotation.ID, uint(10))
	is.True(grid[0].Cells[2].Rotation == nil)

	is.Equal(grid[1].Kind, TargetField)
	is.Equal(grid[1].Cells[2].Rotation.Crop, "wheat")
}

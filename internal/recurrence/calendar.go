package recurrence

import (
	"fmt"
	"time"

	"scadenze/internal/core"
)

// CalendarCell is one day of a month grid.
type CalendarCell struct {
	Date          core.Date    `json:"date"`
	InTargetMonth bool         `json:"in_target_month"`
	IsToday       bool         `json:"is_today"`
	Occurrences   []Occurrence `json:"occurrences"`
}

// GridBuilder lays out month grids made of whole weeks.
type GridBuilder struct {
	WeekStart time.Weekday
}

// DefaultGrid starts weeks on Monday.
var DefaultGrid = GridBuilder{WeekStart: time.Monday}

// BuildMonth builds the month grid with weeks starting on Monday.
func BuildMonth(year, month int, reminders []core.Reminder, today core.Date) ([]CalendarCell, error) {
	return DefaultGrid.BuildMonth(year, month, reminders, today)
}

// MonthWindow returns the first and last day of the whole weeks covering the month.
func (g GridBuilder) MonthWindow(year, month int) (core.Date, core.Date, error) {
	if month < 1 || month > 12 {
		return core.Date{}, core.Date{}, fmt.Errorf("%w: month %d", ErrInvalidWindow, month)
	}
	first := core.NewDate(year, month, 1)
	return first.StartOfWeek(g.WeekStart), first.LastDayOfMonth().EndOfWeek(g.WeekStart), nil
}

// BuildMonth expands every active reminder over the grid window and buckets the
// occurrences by day. The grid always holds a multiple of seven cells.
func (g GridBuilder) BuildMonth(year, month int, reminders []core.Reminder, today core.Date) ([]CalendarCell, error) {
	start, end, err := g.MonthWindow(year, month)
	if err != nil {
		return nil, err
	}

	occurrences, err := ExpandAll(reminders, start, end, ActiveOnly)
	if err != nil {
		return nil, err
	}

	n := core.DaysBetween(start, end) + 1
	cells := make([]CalendarCell, n)
	for i := range cells {
		d := start.AddDays(i)
		cells[i] = CalendarCell{
			Date:          d,
			InTargetMonth: d.Month() == month && d.Year() == year,
			IsToday:       d.Equal(today),
			Occurrences:   []Occurrence{},
		}
	}

	for _, o := range occurrences {
		idx := core.DaysBetween(start, o.Date)
		if idx < 0 || idx >= n {
			continue
		}
		cells[idx].Occurrences = append(cells[idx].Occurrences, o)
	}

	return cells, nil
}

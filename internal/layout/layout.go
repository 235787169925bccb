// Package layout maps appointments onto the calendar's visual grids: a single
// 24-hour day column or a 7-day week grid. Positions are expressed as
// percentages of a 1440-minute column so the UI can scale freely.
package layout

import (
	"appointment-scheduler/internal/appointment"
	"appointment-scheduler/internal/timeutil"
)

// Block is one appointment placed in a day column. Top and Height are
// percentages of the full 24-hour column.
type Block struct {
	Appointment appointment.Appointment
	Top         float64
	Height      float64
}

// DayLayout is the computed rendering of one day column.
type DayLayout struct {
	Date   timeutil.Date
	Header string
	Blocks []Block
}

// ComputeDayLayout places a day's appointments in its 24-hour column.
//
// Overlapping appointments are stacked at the same position rather than
// packed side by side: the conflict check prevents client-created overlaps,
// and externally created overlapping records are allowed to render on top of
// each other.
func ComputeDayLayout(date timeutil.Date, appts []appointment.Appointment) DayLayout {
	blocks := make([]Block, 0, len(appts))
	for _, a := range appts {
		blocks = append(blocks, Block{
			Appointment: a,
			Top:         percentOfDay(a.From.Minutes()),
			Height:      percentOfDay(a.To.Minutes() - a.From.Minutes()),
		})
	}
	return DayLayout{Date: date, Header: date.Display(), Blocks: blocks}
}

func percentOfDay(minutes int) float64 {
	return float64(minutes) / timeutil.MinutesPerDay * 100
}

// WeekConfig sets the horizontal geometry of the week grid. Zero values fall
// back to the defaults.
type WeekConfig struct {
	HourLabelWidth float64 // width reserved for the hour labels on the left
	ColumnWidth    float64 // width of one day column
	ColumnGap      float64 // margin subtracted from each block's width
}

// DefaultWeekConfig matches the proportions of the original week grid.
var DefaultWeekConfig = WeekConfig{
	HourLabelWidth: 60,
	ColumnWidth:    120,
	ColumnGap:      4,
}

func (c WeekConfig) withDefaults() WeekConfig {
	if c.HourLabelWidth == 0 {
		c.HourLabelWidth = DefaultWeekConfig.HourLabelWidth
	}
	if c.ColumnWidth == 0 {
		c.ColumnWidth = DefaultWeekConfig.ColumnWidth
	}
	if c.ColumnGap == 0 {
		c.ColumnGap = DefaultWeekConfig.ColumnGap
	}
	return c
}

// WeekBlock is one appointment placed in the week grid.
type WeekBlock struct {
	Block
	DayIndex int // 0-based offset from the week's Sunday
	Left     float64
	Width    float64
}

// WeekColumn is one day column of the week grid.
type WeekColumn struct {
	Date   timeutil.Date
	Blocks []WeekBlock
}

// WeekLayout is the computed rendering of a Sunday-starting 7-day grid.
type WeekLayout struct {
	Start   timeutil.Date // always a Sunday
	Columns [7]WeekColumn
}

// ComputeWeekLayout places appointments for the week containing date. The week
// always begins on the Sunday of that week. apptsByDate is keyed by date key;
// days with no entry render as empty columns.
func ComputeWeekLayout(date timeutil.Date, apptsByDate map[string][]appointment.Appointment, cfg WeekConfig) WeekLayout {
	cfg = cfg.withDefaults()
	start := timeutil.StartOfWeek(date)

	week := WeekLayout{Start: start}
	for i := 0; i < 7; i++ {
		day := start.AddDays(i)
		col := WeekColumn{Date: day}
		for _, a := range apptsByDate[day.Key()] {
			col.Blocks = append(col.Blocks, WeekBlock{
				Block: Block{
					Appointment: a,
					Top:         percentOfDay(a.From.Minutes()),
					Height:      percentOfDay(a.To.Minutes() - a.From.Minutes()),
				},
				DayIndex: i,
				Left:     cfg.HourLabelWidth + float64(i)*cfg.ColumnWidth,
				Width:    cfg.ColumnWidth - cfg.ColumnGap,
			})
		}
		week.Columns[i] = col
	}
	return week
}

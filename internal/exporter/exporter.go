// internal/exporter/exporter.go
// CSV writers for the downloadable schedule and Q-table exports: schedule
// CSVs (Time,Round,Location,Team) and the Q-table CSV (Time,Round,Location,
// Team,Q-Value), shared by the benchmark, per-episode, and optimal phases
// since they all serialize the same cell shape.
//
// This is the one package in the engine that reaches for encoding/csv
// instead of a pack dependency: writing four- and five-column rows to an
// io.Writer has no natural home in gin, gorm, or any other teacher
// dependency, and encoding/csv's quoting rules are exactly what a
// comma-free, fixed-column format needs — see DESIGN.md.
package exporter

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ScheduleRow is one schedule-CSV row, already reduced to the serialized
// strings the column schema wants — the shape a persisted
// ScheduleDocument's slots reduce to for the download handlers.
type ScheduleRow struct {
	Time     string
	Round    string
	Location string
	Team     int
}

// QTableRow is one Q-table-CSV row, in the same spirit as ScheduleRow.
type QTableRow struct {
	Time     string
	Round    string
	Location string
	Team     int
	QValue   float64
}

// WriteSchedule writes one schedule CSV (optimal_schedule.csv, or a
// per-episode/benchmark equivalent). Unfilled cells render an empty Team
// field.
func WriteSchedule(w io.Writer, rows []ScheduleRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Time", "Round", "Location", "Team"}); err != nil {
		return err
	}

	for _, r := range rows {
		team := ""
		if r.Team != 0 {
			team = strconv.Itoa(r.Team)
		}
		if err := cw.Write([]string{r.Time, r.Round, r.Location, team}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// WriteQTable writes the final Q-table CSV.
func WriteQTable(w io.Writer, rows []QTableRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Time", "Round", "Location", "Team", "Q-Value"}); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.Time,
			r.Round,
			r.Location,
			strconv.Itoa(r.Team),
			strconv.FormatFloat(r.QValue, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}

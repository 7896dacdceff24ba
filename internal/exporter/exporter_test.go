package exporter

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteScheduleHeaderAndRows(t *testing.T) {
	rows := []ScheduleRow{
		{Time: "08:00", Round: "Judging", Location: "Room(1)", Team: 12},
		{Time: "08:15", Round: "Judging", Location: "Room(2)", Team: 0},
	}

	var buf bytes.Buffer
	if err := WriteSchedule(&buf, rows); err != nil {
		t.Fatalf("WriteSchedule returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}
	if lines[0] != "Time,Round,Location,Team" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "08:00,Judging,Room(1),12" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "08:15,Judging,Room(2)," {
		t.Errorf("row 2 (unfilled team) = %q, want empty Team field", lines[2])
	}
}

func TestWriteQTableHeaderAndRows(t *testing.T) {
	rows := []QTableRow{
		{Time: "08:00", Round: "Table", Location: "Table3", Team: 7, QValue: 12.5},
	}

	var buf bytes.Buffer
	if err := WriteQTable(&buf, rows); err != nil {
		t.Fatalf("WriteQTable returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (header + 1 row)", len(lines))
	}
	if lines[0] != "Time,Round,Location,Team,Q-Value" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "08:00,Table,Table3,7,12.5" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteScheduleEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSchedule(&buf, nil); err != nil {
		t.Fatalf("WriteSchedule returned error: %v", err)
	}
	if strings.TrimRight(buf.String(), "\n") != "Time,Round,Location,Team" {
		t.Errorf("empty export should still write the header, got %q", buf.String())
	}
}

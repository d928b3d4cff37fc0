package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/terraincognita07/fastfit/internal/models"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	fasting := &stubHistoryReader{cycles: []FastingCycle{closedCycle(t, "2026-03-10", CycleStateCompleted)}}
	workouts := &stubRangeReader{logs: []models.WorkoutLog{
		{UserID: 1, Day: "2026-03-09", DayNumber: 1, TotalExercises: 1, CompletedIndices: []int{0}},
		{UserID: 1, Day: "2026-03-10", DayNumber: 2, TotalExercises: 4, CompletedIndices: []int{0, 1, 1, 9}},
		{UserID: 1, Day: "2026-03-20", DayNumber: 12, TotalExercises: 4},
	}}
	return NewExportService(fasting, workouts)
}

func TestExportServiceBuildEntriesMergesDays(t *testing.T) {
	t.Parallel()

	service := newExportFixture(t)
	entries, err := service.BuildEntries(context.Background(), 1, ExportRange{From: "2026-03-01", To: "2026-03-10"}, time.UTC)
	if err != nil {
		t.Fatalf("BuildEntries() unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	workoutOnly := entries[0]
	if workoutOnly.Date != "2026-03-09" || workoutOnly.FastingOutcome != "" || workoutOnly.CompletionPercent != 100 {
		t.Fatalf("unexpected first entry %+v", workoutOnly)
	}

	merged := entries[1]
	if merged.FastingOutcome != CycleStateCompleted || merged.FastingMinutes != 660 {
		t.Fatalf("unexpected fasting part %+v", merged)
	}
	if merged.ExercisesCompleted != 2 || merged.ExercisesTotal != 4 || merged.CompletionPercent != 50 {
		t.Fatalf("unexpected workout part %+v", merged)
	}
}

func TestExportEntryCSVColumns(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	service := newExportFixture(t)
	entries, err := service.BuildEntries(context.Background(), 1, ExportRange{From: "2026-03-09", To: "2026-03-10"}, time.UTC)
	if err != nil {
		t.Fatalf("BuildEntries() unexpected error: %v", err)
	}

	want := [][]string{
		{"2026-03-09", "", "", "", "", "", "0", "1", "1", "1", "100"},
		{
			"2026-03-10", "completed",
			"2026-03-10T10:00:00+09:00", "2026-03-10T21:00:00+09:00",
			"2026-03-10T21:00:00+09:00", "2026-03-11T05:00:00+09:00",
			"660", "2", "2", "4", "50",
		},
	}
	got := make([][]string, 0, len(entries))
	for _, entry := range entries {
		columns := entry.CSVColumns(tokyo)
		if len(columns) != len(ExportCSVHeaders) {
			t.Fatalf("expected %d columns, got %d", len(ExportCSVHeaders), len(columns))
		}
		got = append(got, columns)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestExportServiceBuildSummary(t *testing.T) {
	t.Parallel()

	service := newExportFixture(t)
	summary, err := service.BuildSummary(context.Background(), 1, ExportRange{From: "2026-03-01", To: "2026-03-31"}, time.UTC)
	if err != nil {
		t.Fatalf("BuildSummary() unexpected error: %v", err)
	}
	want := ExportSummary{TotalEntries: 3, HasData: true, DateFrom: "2026-03-09", DateTo: "2026-03-20"}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}

	empty := NewExportService(&stubHistoryReader{}, &stubRangeReader{})
	summary, err = empty.BuildSummary(context.Background(), 1, ExportRange{From: "2026-03-01", To: "2026-03-31"}, time.UTC)
	if err != nil {
		t.Fatalf("BuildSummary() unexpected error: %v", err)
	}
	if summary.HasData || summary.TotalEntries != 0 {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

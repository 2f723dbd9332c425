package models

import (
	"errors"
	"testing"
)

func TestSpanKeys(t *testing.T) {
	tests := []struct {
		name  string
		hours int
		want  int
	}{
		{name: "single hour", hours: 1, want: 1},
		{name: "three hours", hours: 3, want: 3},
		{name: "zero", hours: 0, want: 0},
		{name: "negative", hours: -4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := Span{ResourceID: "r", Date: "2024-03-15", StartHour: 18, Hours: tt.hours}.Keys()
			if len(keys) != tt.want {
				t.Fatalf("len(Keys()) = %d, want %d", len(keys), tt.want)
			}
			for i, k := range keys {
				if k.Hour != 18+i {
					t.Fatalf("keys[%d].Hour = %d", i, k.Hour)
				}
			}
		})
	}
}

func TestDatesBetween(t *testing.T) {
	dates, err := DatesBetween("2024-02-28", "2024-03-01", 31)
	if err != nil {
		t.Fatalf("DatesBetween: %v", err)
	}
	want := []string{"2024-02-28", "2024-02-29", "2024-03-01"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}

	if _, err := DatesBetween("2024-03-01", "2024-03-03", 3); err != nil {
		t.Fatalf("range of exactly maxDays: %v", err)
	}
	if _, err := DatesBetween("2024-03-01", "2024-03-04", 3); !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("expected ErrRangeTooLong, got %v", err)
	}
	if _, err := DatesBetween("0001-01-01", "9999-12-31", 31); !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("expected ErrRangeTooLong for a huge range, got %v", err)
	}
	if _, err := DatesBetween("2024-03-02", "2024-03-01", 0); err == nil {
		t.Fatal("expected error when to is before from")
	}
}

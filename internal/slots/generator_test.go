package slots

import (
	"context"
	"testing"
	"time"
)

func weekdayRules() *StaticRuleRepository {
	return &StaticRuleRepository{Rules: []AvailabilityRule{
		{ID: "r1", Weekday: time.Tuesday, StartTime: "09:00", EndTime: "11:00", SlotMinutes: 30, Active: true},
		{ID: "r2", Weekday: time.Tuesday, StartTime: "14:00:00", EndTime: "15:00:00", SlotMinutes: 30, Active: true},
		{ID: "r3", Weekday: time.Wednesday, StartTime: "09:00", EndTime: "10:00", SlotMinutes: 30, Active: false},
	}}
}

func TestGenerateExpandsRulesForMatchingWeekdays(t *testing.T) {
	repo := NewInMemoryRepository()
	gen := NewGenerator(weekdayRules(), repo, nil)

	// 2025-06-10 is a Tuesday, 2025-06-11 a Wednesday (rule inactive).
	inserted, err := gen.Generate(context.Background(), "2025-06-10", "2025-06-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00..10:30 (4 slots) + 14:00, 14:30 (2 slots)
	if inserted != 6 {
		t.Fatalf("expected 6 slots inserted, got %d", inserted)
	}

	day, err := repo.ListByDate(context.Background(), "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(day) != 6 {
		t.Fatalf("expected 6 slots for the Tuesday, got %d", len(day))
	}
	if day[0].Time != "09:00" || day[len(day)-1].Time != "14:30" {
		t.Errorf("unexpected slot range: first %s last %s", day[0].Time, day[len(day)-1].Time)
	}
	for _, s := range day {
		if !s.Available {
			t.Errorf("generated slot %s should start available", s.Time)
		}
		if s.ID == "" {
			t.Error("generated slot missing id")
		}
	}

	other, _ := repo.ListByDate(context.Background(), "2025-06-11")
	if len(other) != 0 {
		t.Errorf("inactive rule should generate nothing, got %d slots", len(other))
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	gen := NewGenerator(weekdayRules(), repo, nil)

	if _, err := gen.Generate(context.Background(), "2025-06-10", "2025-06-10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inserted, err := gen.Generate(context.Background(), "2025-06-10", "2025-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second run should insert nothing, got %d", inserted)
	}
}

func TestGenerateRejectsBadRange(t *testing.T) {
	gen := NewGenerator(weekdayRules(), NewInMemoryRepository(), nil)

	cases := [][2]string{
		{"2025-06-11", "2025-06-10"},
		{"junk", "2025-06-10"},
		{"2025-06-10", "junk"},
	}
	for _, c := range cases {
		if _, err := gen.Generate(context.Background(), c[0], c[1]); err != ErrInvalidDate {
			t.Errorf("Generate(%q, %q): expected ErrInvalidDate, got %v", c[0], c[1], err)
		}
	}
}

func TestExpandRuleSkipsMalformedWindows(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	bad := []AvailabilityRule{
		{StartTime: "10:00", EndTime: "09:00", SlotMinutes: 30},
		{StartTime: "morning", EndTime: "11:00", SlotMinutes: 30},
		{StartTime: "09:00", EndTime: "11:00", SlotMinutes: 0},
	}
	for _, rule := range bad {
		if _, err := expandRule(rule, day); err == nil {
			t.Errorf("expected error for rule %+v", rule)
		}
	}
}

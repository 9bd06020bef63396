package schedule

import (
	"errors"
	"testing"
	"time"
)

func weekendCalendar(start, end time.Time) *Calendar {
	return NewCalendar([]ClosedRule{
		ClosedWeekday{Day: time.Saturday},
		ClosedWeekday{Day: time.Sunday},
	}, Horizon{Start: start, End: end})
}

func TestIsWorking(t *testing.T) {
	horizon := Horizon{Start: Day(2024, 1, 1), End: Day(2024, 1, 31)}
	rules := []ClosedRule{
		ClosedWeekday{Day: time.Saturday},
		ClosedWeekday{Day: time.Sunday},
		ClosedDate{Date: Day(2024, 1, 10)},
		ClosedRange{Start: Day(2024, 1, 22), End: Day(2024, 1, 24)},
	}
	cal := NewCalendar(rules, horizon)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"PlainWeekday", Day(2024, 1, 2), true},
		{"Saturday", Day(2024, 1, 6), false},
		{"Sunday", Day(2024, 1, 7), false},
		{"SpecificClosedDate", Day(2024, 1, 10), false},
		{"RangeStart", Day(2024, 1, 22), false},
		{"RangeMiddle", Day(2024, 1, 23), false},
		{"RangeEnd", Day(2024, 1, 24), false},
		{"DayAfterRange", Day(2024, 1, 25), true},
		{"BeforeHorizon", Day(2023, 12, 29), false},
		{"AfterHorizon", Day(2024, 2, 1), false},
		{"HorizonStart", Day(2024, 1, 1), true},
		{"HorizonEnd", Day(2024, 1, 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.IsWorking(tt.date); got != tt.want {
				t.Errorf("IsWorking(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
			// Purity: a second identical call must agree.
			if got := cal.IsWorking(tt.date); got != tt.want {
				t.Errorf("IsWorking(%s) changed between calls", tt.date.Format("2006-01-02"))
			}
		})
	}
}

func TestNextWorkingDay(t *testing.T) {
	cal := weekendCalendar(Day(2024, 1, 1), Day(2024, 1, 31))

	tests := []struct {
		name      string
		from      time.Time
		inclusive bool
		want      time.Time
	}{
		{"WorkingDayInclusive", Day(2024, 1, 2), true, Day(2024, 1, 2)},
		{"WorkingDayExclusive", Day(2024, 1, 2), false, Day(2024, 1, 3)},
		{"SaturdayToMonday", Day(2024, 1, 6), true, Day(2024, 1, 8)},
		{"FridayExclusiveSkipsWeekend", Day(2024, 1, 5), false, Day(2024, 1, 8)},
		{"BeforeHorizonClipsToStart", Day(2023, 12, 1), true, Day(2024, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.NextWorkingDay(tt.from, tt.inclusive)
			if err != nil {
				t.Fatalf("NextWorkingDay() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextWorkingDay(%s) = %s, want %s",
					tt.from.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestNextWorkingDayMinimality(t *testing.T) {
	cal := weekendCalendar(Day(2024, 1, 1), Day(2024, 3, 31))

	for d := Day(2024, 1, 1); !d.After(Day(2024, 3, 31)); d = d.AddDate(0, 0, 1) {
		got, err := cal.NextWorkingDay(d, true)
		if err != nil {
			t.Fatalf("NextWorkingDay(%s) error = %v", d.Format("2006-01-02"), err)
		}
		if got.Before(d) {
			t.Fatalf("NextWorkingDay(%s) = %s, before input", d.Format("2006-01-02"), got.Format("2006-01-02"))
		}
		if !cal.IsWorking(got) {
			t.Fatalf("NextWorkingDay(%s) = %s is not a working day", d.Format("2006-01-02"), got.Format("2006-01-02"))
		}
		// No working day may exist strictly between d and the result.
		for between := d; between.Before(got); between = between.AddDate(0, 0, 1) {
			if cal.IsWorking(between) {
				t.Fatalf("NextWorkingDay(%s) skipped working day %s", d.Format("2006-01-02"), between.Format("2006-01-02"))
			}
		}
	}
}

func TestNextWorkingDayHorizonExhausted(t *testing.T) {
	// Every day in the horizon is closed.
	cal := NewCalendar([]ClosedRule{
		ClosedRange{Start: Day(2024, 1, 1), End: Day(2024, 1, 7)},
	}, Horizon{Start: Day(2024, 1, 1), End: Day(2024, 1, 7)})

	if _, err := cal.NextWorkingDay(Day(2024, 1, 3), true); !errors.Is(err, ErrHorizonExhausted) {
		t.Errorf("NextWorkingDay() error = %v, want ErrHorizonExhausted", err)
	}

	// A date past the horizon end can never resolve either.
	open := weekendCalendar(Day(2024, 1, 1), Day(2024, 1, 31))
	if _, err := open.NextWorkingDay(Day(2024, 2, 15), true); !errors.Is(err, ErrHorizonExhausted) {
		t.Errorf("NextWorkingDay(past horizon) error = %v, want ErrHorizonExhausted", err)
	}
}

func TestWorkingDayCount(t *testing.T) {
	cal := weekendCalendar(Day(2024, 1, 1), Day(2024, 1, 31))

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"FullWeek", Day(2024, 1, 1), Day(2024, 1, 7), 5},
		{"SingleWorkingDay", Day(2024, 1, 8), Day(2024, 1, 8), 1},
		{"WeekendOnly", Day(2024, 1, 6), Day(2024, 1, 7), 0},
		{"TwoWeeks", Day(2024, 1, 1), Day(2024, 1, 14), 10},
		{"EmptyRange", Day(2024, 1, 10), Day(2024, 1, 9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.WorkingDayCount(tt.from, tt.to); got != tt.want {
				t.Errorf("WorkingDayCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOverlappingRulesAreIdempotent(t *testing.T) {
	// 2024-01-06 is a Saturday, a specific closed date, and inside a closed
	// range all at once; it must simply be closed.
	cal := NewCalendar([]ClosedRule{
		ClosedWeekday{Day: time.Saturday},
		ClosedDate{Date: Day(2024, 1, 6)},
		ClosedRange{Start: Day(2024, 1, 5), End: Day(2024, 1, 7)},
	}, Horizon{Start: Day(2024, 1, 1), End: Day(2024, 1, 31)})

	if cal.IsWorking(Day(2024, 1, 6)) {
		t.Error("triply-closed date reported as working")
	}
	got, err := cal.NextWorkingDay(Day(2024, 1, 5), true)
	if err != nil {
		t.Fatalf("NextWorkingDay() error = %v", err)
	}
	if !got.Equal(Day(2024, 1, 8)) {
		t.Errorf("NextWorkingDay() = %s, want 2024-01-08", got.Format("2006-01-02"))
	}
}

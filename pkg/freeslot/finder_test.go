package freeslot

import (
	"testing"
	"time"
)

// 2026-10-19 is a Monday.
func at(day, hour, min int) time.Time {
	return time.Date(2026, 10, day, hour, min, 0, 0, time.UTC)
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []Interval
	}{
		{
			name: "empty calendar gives full working day",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				MinDuration: 30 * time.Minute,
				Now:         at(18, 12, 0),
			},
			want: []Interval{{at(19, 9, 0), at(19, 18, 0)}},
		},
		{
			name: "gaps around busy intervals",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Busy: []Interval{
					{at(19, 14, 0), at(19, 15, 30)},
					{at(19, 10, 0), at(19, 11, 0)},
				},
				MinDuration: 30 * time.Minute,
			},
			want: []Interval{
				{at(19, 9, 0), at(19, 10, 0)},
				{at(19, 11, 0), at(19, 14, 0)},
				{at(19, 15, 30), at(19, 18, 0)},
			},
		},
		{
			name: "overlapping busy intervals merge",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Busy: []Interval{
					{at(19, 10, 0), at(19, 12, 0)},
					{at(19, 11, 0), at(19, 13, 0)},
					{at(19, 11, 30), at(19, 11, 45)},
				},
			},
			want: []Interval{
				{at(19, 9, 0), at(19, 10, 0)},
				{at(19, 13, 0), at(19, 18, 0)},
			},
		},
		{
			name: "short gaps are dropped",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Busy: []Interval{
					{at(19, 9, 20), at(19, 17, 45)},
				},
				MinDuration: 30 * time.Minute,
			},
			want: nil,
		},
		{
			name: "now clips the start of today",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Now:         at(19, 13, 20),
				MinDuration: time.Hour,
			},
			want: []Interval{{at(19, 13, 20), at(19, 18, 0)}},
		},
		{
			name: "weekend days are skipped",
			req: Request{
				WindowStart: at(23, 0, 0),
				WindowEnd:   at(27, 0, 0),
				MinDuration: time.Hour,
			},
			want: []Interval{
				{at(23, 9, 0), at(23, 18, 0)},
				{at(26, 9, 0), at(26, 18, 0)},
			},
		},
		{
			name: "busy outside working hours contributes nothing",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Busy: []Interval{
					{at(19, 6, 0), at(19, 8, 0)},
					{at(19, 19, 0), at(19, 21, 0)},
				},
				MinDuration: time.Hour,
			},
			want: []Interval{{at(19, 9, 0), at(19, 18, 0)}},
		},
		{
			name: "window ends mid day",
			req: Request{
				WindowStart: at(19, 10, 0),
				WindowEnd:   at(19, 12, 0),
				MinDuration: time.Hour,
			},
			want: []Interval{{at(19, 10, 0), at(19, 12, 0)}},
		},
		{
			name: "fully booked day",
			req: Request{
				WindowStart: at(19, 0, 0),
				WindowEnd:   at(20, 0, 0),
				Busy:        []Interval{{at(19, 8, 0), at(19, 19, 0)}},
			},
			want: nil,
		},
		{
			name: "inverted window",
			req: Request{
				WindowStart: at(20, 0, 0),
				WindowEnd:   at(19, 0, 0),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Find(tt.req)
			if len(got) != len(tt.want) {
				t.Fatalf("Find() returned %d slots, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("slot %d = [%v, %v), want [%v, %v)", i, got[i].Start, got[i].End, tt.want[i].Start, tt.want[i].End)
				}
				if got[i].Duration() < tt.req.MinDuration {
					t.Errorf("slot %d shorter than MinDuration: %v", i, got[i].Duration())
				}
			}
		})
	}
}

func TestFind_FullDayIs540Minutes(t *testing.T) {
	slots := Find(Request{
		WindowStart: at(19, 0, 0),
		WindowEnd:   at(20, 0, 0),
		MinDuration: 30 * time.Minute,
	})
	if len(slots) != 1 {
		t.Fatalf("expected one slot, got %d", len(slots))
	}
	if got := slots[0].Duration(); got != 540*time.Minute {
		t.Errorf("duration = %v, want 540m", got)
	}
}

func TestFind_Location(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*60*60)
	slots := Find(Request{
		WindowStart: time.Date(2026, 10, 19, 0, 0, 0, 0, loc),
		WindowEnd:   time.Date(2026, 10, 20, 0, 0, 0, 0, loc),
		Location:    loc,
		MinDuration: time.Hour,
	})
	if len(slots) != 1 {
		t.Fatalf("expected one slot, got %d", len(slots))
	}
	if want := time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC); !slots[0].Start.Equal(want) {
		t.Errorf("start = %v, want %v", slots[0].Start.UTC(), want)
	}
}

package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var base = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return base.Add(time.Duration(hour-10) * time.Hour)
}

func TestInterval_Overlaps(t *testing.T) {
	existing := Interval{Start: at(10), End: at(13)}

	tests := []struct {
		name      string
		candidate Interval
		want      bool
	}{
		{"identical slot", Interval{at(10), at(13)}, true},
		{"starts inside", Interval{at(12), at(15)}, true},
		{"ends inside", Interval{at(8), at(11)}, true},
		{"contains existing", Interval{at(9), at(14)}, true},
		{"touches end", Interval{at(13), at(15)}, false},
		{"touches start", Interval{at(8), at(10)}, false},
		{"fully before", Interval{at(6), at(8)}, false},
		{"empty candidate", Interval{at(11), at(11)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candidate.Overlaps(existing))
			assert.Equal(t, tt.want, existing.Overlaps(tt.candidate))
		})
	}
}

func TestConflicts(t *testing.T) {
	occupied := []Interval{
		NewInterval(at(8), 2*time.Hour),
		NewInterval(at(12), time.Hour),
		NewInterval(at(20), 24*time.Hour),
	}

	got := Conflicts(NewInterval(at(9), 4*time.Hour), occupied)
	assert.Len(t, got, 2)
	assert.Equal(t, occupied[0], got[0])
	assert.Equal(t, occupied[1], got[1])

	assert.True(t, Free(NewInterval(at(10), 2*time.Hour), occupied))
	assert.False(t, Free(NewInterval(at(23), time.Hour), occupied))
	assert.True(t, Free(NewInterval(at(9), time.Hour), nil))
}

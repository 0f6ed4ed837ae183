package roster

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rostercal/internal/model"
)

func TestResolveHolidays(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []model.Date
	}{
		{
			name:  "single date",
			lines: []string{"AL 10/06"},
			want:  []model.Date{{Year: 2024, Month: time.June, Day: 10}},
		},
		{
			name:  "inclusive range",
			lines: []string{"AL 01/06-03/06"},
			want: []model.Date{
				{Year: 2024, Month: time.June, Day: 1},
				{Year: 2024, Month: time.June, Day: 2},
				{Year: 2024, Month: time.June, Day: 3},
			},
		},
		{
			name:  "range across month end",
			lines: []string{"AL 30/6-2/7"},
			want: []model.Date{
				{Year: 2024, Month: time.June, Day: 30},
				{Year: 2024, Month: time.July, Day: 1},
				{Year: 2024, Month: time.July, Day: 2},
			},
		},
		{
			name:  "reversed range is empty",
			lines: []string{"AL 05/06-03/06"},
			want:  []model.Date{},
		},
		{
			name:  "lines without prefix are ignored",
			lines: []string{"", "sick 4/6", "AL4/6", "al 4/6", "AL 8/6"},
			want:  []model.Date{{Year: 2024, Month: time.June, Day: 8}},
		},
		{
			name:  "overlapping entries collapse",
			lines: []string{"AL 1/6-2/6", "AL 2/6"},
			want: []model.Date{
				{Year: 2024, Month: time.June, Day: 1},
				{Year: 2024, Month: time.June, Day: 2},
			},
		},
		{
			name:  "leap day",
			lines: []string{"AL 29/02"},
			want:  []model.Date{{Year: 2024, Month: time.February, Day: 29}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveHolidays(2024, tt.lines)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got.Sorted()); diff != "" {
				t.Errorf("holidays mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveHolidaysErrors(t *testing.T) {
	for _, line := range []string{
		"AL 31/02",
		"AL 29/02-01/03",
		"AL 1/13",
		"AL x/6",
		"AL 10",
		"AL 1/6-",
		"AL 1/6-3/x",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ResolveHolidays(2023, []string{line})
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

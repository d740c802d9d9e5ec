package calver_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/drover/pkg/utils/calver"
	"github.com/m-mizutani/gt"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "single digit month and day",
			date: time.Date(2021, 3, 9, 12, 0, 0, 0, time.UTC),
			want: "2021.3.9",
		},
		{
			name: "double digit month and day",
			date: time.Date(2026, 11, 28, 0, 0, 0, 0, time.UTC),
			want: "2026.11.28",
		},
		{
			name: "first day of year",
			date: time.Date(2026, 1, 1, 23, 59, 59, 0, time.UTC),
			want: "2026.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, calver.Format(tt.date)).Equal(tt.want)
		})
	}
}

func TestWithSerial(t *testing.T) {
	gt.Value(t, calver.WithSerial("2026.3.9", 2)).Equal("2026.3.9.2")
	gt.Value(t, calver.WithSerial("2026.3.9", 10)).Equal("2026.3.9.10")
}

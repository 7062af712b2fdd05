package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassifyWindow(t *testing.T) {
	opensAt := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	closesAt := time.Date(2023, 6, 1, 11, 0, 0, 0, time.UTC)

	ts := func(t time.Time) *time.Time { return &t }

	cases := []struct {
		name        string
		challengeTS *time.Time
		want        WindowClass
	}{
		{"nil timestamp", nil, WindowIndeterminate},
		{"mid-window", ts(opensAt.Add(30 * time.Minute)), WindowOnTime},
		{"exactly at open", ts(opensAt), WindowOnTime},
		{"exactly at close", ts(closesAt), WindowOnTime},
		{"one second early", ts(opensAt.Add(-time.Second)), WindowTooEarly},
		{"one second late", ts(closesAt.Add(time.Second)), WindowTooLate},
		{"way early", ts(opensAt.Add(-24 * time.Hour)), WindowTooEarly},
		{"way late", ts(closesAt.Add(24 * time.Hour)), WindowTooLate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyWindow(tc.challengeTS, opensAt, closesAt))
		})
	}
}

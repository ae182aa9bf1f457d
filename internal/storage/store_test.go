package storage

import "testing"

func TestPartCount(t *testing.T) {
	cases := []struct {
		size int64
		want int
	}{
		{0, 0},
		{-1, 0},
		{1, 1},
		{PartSize - 1, 1},
		{PartSize, 1},
		{PartSize + 1, 2},
		{12 * 1024 * 1024, 3},
		{20 * 1024 * 1024, 4},
		{4 * PartSize, 4},
	}
	for _, c := range cases {
		if got := PartCount(c.size); got != c.want {
			t.Errorf("PartCount(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

package utils

import "testing"

func TestFormatCents(t *testing.T) {
	cases := map[int64]string{
		0:         "0.00",
		5:         "0.05",
		99:        "0.99",
		100:       "1.00",
		55000:     "550.00",
		99001:     "990.01",
		-44000:    "-440.00",
		123456789: "1,234,567.89",
	}
	for cents, want := range cases {
		if got := FormatCents(cents); got != want {
			t.Errorf("FormatCents(%d) = %s, want %s", cents, got, want)
		}
	}
}

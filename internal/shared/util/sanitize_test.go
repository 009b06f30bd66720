package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "rtc.pdf", want: "rtc.pdf"},
		{in: "  scans/aadhaar.pdf ", want: "scans_aadhaar.pdf"},
		{in: "a\\b\x00.pdf", want: "a_b.pdf"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	got, err := SanitizeFileName(strings.Repeat("ಪ", 200) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len([]rune(got)) != maxFileNameLen || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("unexpected truncation: %d runes, %q suffix", len([]rune(got)), got[len(got)-4:])
	}
}

package logger

import (
	"testing"
	"time"
)

func TestCompactRID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"100:200:300", "2s.5k.8c"},
		{"", ""},
		{"not-a-rid", "not-a-rid"},
		{"1:2", "1:2"},
		{"1:x:3", "1:x:3"},
	}
	for _, tc := range cases {
		if got := CompactRID(tc.in); got != tc.want {
			t.Errorf("CompactRID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("abc\x00def", 10); got != "abcdef" {
		t.Errorf("control chars survived: %q", got)
	}
	if got := SanitizeLimit("привет мир", 6); got != "привет" {
		t.Errorf("rune limit = %q", got)
	}
	if got := SanitizeLimit("anything", 0); got != "" {
		t.Errorf("zero limit = %q", got)
	}
}

func TestBuildRIDRoundTrip(t *testing.T) {
	rid := BuildRID(42, 7, 9)
	if rid != "42:7:9" {
		t.Fatalf("rid = %q", rid)
	}
	ctx := WithRID(Background(), rid)
	if got := RIDFrom(ctx); got != rid {
		t.Fatalf("RIDFrom = %q", got)
	}
}

func TestUpdateMetaFromContext(t *testing.T) {
	ctx := WithUpdateMeta(Background(), 11, 22, 33)
	if UpdateIDFrom(ctx) != 11 || UserIDFrom(ctx) != 22 || ChatIDFrom(ctx) != 33 {
		t.Fatalf("meta = %d %d %d", UpdateIDFrom(ctx), UserIDFrom(ctx), ChatIDFrom(ctx))
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1499 * time.Microsecond); got != time.Millisecond {
		t.Errorf("RoundMS = %v", got)
	}
	if got := RoundMS(-time.Second); got != 0 {
		t.Errorf("negative = %v", got)
	}
}

package util

import "testing"

func TestTruncateCountsRunes(t *testing.T) {
	s := "áéíóú economía"
	if got := Truncate(s, 5); got != "áéíóú" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("short", 350); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("x", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  Fed\n\tholds   rates \r\n"); got != "Fed holds rates" {
		t.Fatalf("unexpected %q", got)
	}
}

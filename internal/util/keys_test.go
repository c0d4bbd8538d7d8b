package util

import (
	"sort"
	"testing"
)

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern, key string
		want         bool
	}{
		{"app:user:*", "app:user:1", true},
		{"app:user:*", "app:user:1:extra", true},
		{"app:user:*", "app:user", false},
		{"*greet*", "app:v1:greet:en", true},
		{"*greet*", "app:v1:gree", false},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{`a\*b`, "a*b", true},
		{`a\*b`, "axb", false},
		{"", "", true},
		{"*", "", true},
		{"a*b*c", "aXXbYYc", true},
		{"a*b*c", "aXXbYY", false},
		{"path/*", "path/with/slash", true},
	}
	for _, tc := range cases {
		if got := MatchGlob(tc.pattern, tc.key); got != tc.want {
			t.Fatalf("MatchGlob(%q, %q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}

func TestEscapeGlobRoundTrip(t *testing.T) {
	keys := []string{"plain:key", "star*key", "q?mark", `back\slash`, "[brackets]"}
	for _, k := range keys {
		esc := EscapeGlob(k)
		if !MatchGlob(esc, k) {
			t.Fatalf("escaped pattern %q should match %q", esc, k)
		}
		if !MatchGlob(esc+":*", k+":1") {
			t.Fatalf("escaped prefix pattern %q should match %q", esc+":*", k+":1")
		}
	}
	if MatchGlob(EscapeGlob("a*"), "abc") {
		t.Fatalf("escaped star must not act as a wildcard")
	}
}

func TestKeyIndex(t *testing.T) {
	var idx KeyIndex
	idx.Add("ns:a:1", 1)
	idx.Add("ns:a:2", 1)
	idx.Add("ns:b:1", 1)
	idx.Add("ns:a:1", 1) // duplicate

	got := idx.Match("ns:a:*")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "ns:a:1" || got[1] != "ns:a:2" {
		t.Fatalf("Match = %v", got)
	}

	idx.Remove("ns:a:1")
	if idx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", idx.Len())
	}
}

func TestKeyIndexPrune(t *testing.T) {
	var idx KeyIndex
	for _, k := range []string{"a", "b", "c"} {
		idx.Add(k, 1)
	}
	n := idx.Prune(func(k string) bool { return k == "b" })
	if n != 2 || idx.Len() != 1 {
		t.Fatalf("Prune: removed=%d len=%d", n, idx.Len())
	}
	if got := idx.Match("*"); len(got) != 1 || got[0] != "b" {
		t.Fatalf("remaining keys: %v", got)
	}
}

func TestKeyIndexCost(t *testing.T) {
	var idx KeyIndex
	if _, ok := idx.Cost("a"); ok {
		t.Fatalf("Cost on missing key must report false")
	}
	idx.Add("a", 7)
	idx.Add("a", 3)
	if c, ok := idx.Cost("a"); !ok || c != 3 {
		t.Fatalf("Cost = %d,%v want 3,true", c, ok)
	}
}

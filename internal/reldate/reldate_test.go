package reldate

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		days int
		ok   bool
	}{
		{"2 days ago", 2, true},
		{"1 day ago", 1, true},
		{"23 hours ago", 0, true},
		{"3 weeks ago", 21, true},
		{"1 month ago", 30, true},
		{"Posted 5 days ago", 5, true},
		{"yesterday", 1, true},
		{"today", 0, true},
		{"just now", 0, true},
		{"אתמול", 1, true},
		{"היום", 0, true},
		{"לפני 3 ימים", 3, true},
		{"3 שבועות", 21, true},
		{"לפני שבוע", 7, true},
		{"5 שעות", 0, true},
		{"לפני שעה", 0, true},
		{"יומיים", 2, true},
		{"שבועיים", 14, true},
		{"לפני חודש", 30, true},
		{"", 0, false},
		{"Tel Aviv, Israel", 0, false},
		{"Senior Engineer", 0, false},
	}

	for _, tc := range cases {
		days, ok := Parse(tc.in)
		if ok != tc.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && days != tc.days {
			t.Errorf("Parse(%q) = %d days, want %d", tc.in, days, tc.days)
		}
	}
}

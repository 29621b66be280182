package engine

import "testing"

func TestParseAmountAccepts(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"15000", 15000},
		{"15,000", 15000},
		{"15k", 15000},
		{"ZMW 15000", 15000},
		{"zmw 15,000", 15000},
		{"  2500  ", 2500},
		{"500K", 500000},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if !ok {
				t.Fatalf("expected %q to parse", tt.input)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "15 thousand", "15.5", "k", "zmw", "15k5", "-100"} {
		t.Run(input, func(t *testing.T) {
			if _, ok := ParseAmount(input); ok {
				t.Fatalf("expected %q to be rejected", input)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "ZMW 0"},
		{500, "ZMW 500"},
		{1500, "ZMW 1,500"},
		{15000, "ZMW 15,000"},
		{500000, "ZMW 500,000"},
		{1234567, "ZMW 1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReferenceCode(t *testing.T) {
	if got := ReferenceCode("260971234567"); got != "#XF4567" {
		t.Fatalf("expected #XF4567, got %s", got)
	}
	// Short identifiers keep whatever tail exists.
	if got := ReferenceCode("42"); got != "#XF42" {
		t.Fatalf("expected #XF42, got %s", got)
	}
}

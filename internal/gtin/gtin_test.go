package gtin

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"gtin14 leading zero", "07032069848975", "7032069848975"},
		{"gtin14 leading three", "37032069848975", "7032069848975"},
		{"gtin14 leading four kept", "47032069848975", "47032069848975"},
		{"gtin13 untouched", "7032069848975", "7032069848975"},
		{"gtin8 untouched", "70320698", "70320698"},
		{"strips separators", " 0703-2069 848975\n", "7032069848975"},
		{"no digits", "n/a", ""},
		{"empty", "", ""},
		{"eighteen digits one dropped", "012345678901234567", "12345678901234567"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClean_DropsExactlyOneLeadingDigit(t *testing.T) {
	for n := 14; n <= 18; n++ {
		for lead := byte('0'); lead <= '3'; lead++ {
			in := string(lead) + strings.Repeat("9", n-1)
			got := Clean(in)
			if got != in[1:] {
				t.Fatalf("len=%d lead=%c: got %q, want %q", n, lead, got, in[1:])
			}
		}
	}
}

func TestClean_IdentityUpTo13Digits(t *testing.T) {
	for n := 0; n <= 13; n++ {
		in := strings.Repeat("0", n)
		if got := Clean(in); got != in {
			t.Fatalf("len=%d: got %q, want identity", n, got)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"07032069848975",
		"17032069848975",
		"7032069848975",
		"GTIN: 0 7032 0698 4897 5",
		"abc",
		"57032069848975",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Fatalf("Clean not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// Beyond 14 digits each call drops one more indicator digit, so Clean is
// not idempotent there.
func TestClean_LongInputDropsOneDigitPerCall(t *testing.T) {
	once := Clean("012345678901234")
	if once != "12345678901234" {
		t.Fatalf("first call: %q", once)
	}
	if twice := Clean(once); twice != "2345678901234" {
		t.Fatalf("second call: %q", twice)
	}
	if got := Clean("412345678901234"); got != "412345678901234" {
		t.Fatalf("indicator above 3 must be kept: %q", got)
	}
}

func TestIsCode(t *testing.T) {
	for _, c := range []string{"GTIN", "gtin-fpak", " GTIN-DPAK "} {
		if !IsCode(c) {
			t.Fatalf("IsCode(%q)=false, want true", c)
		}
	}
	for _, c := range []string{"EPD", "", "LV"} {
		if IsCode(c) {
			t.Fatalf("IsCode(%q)=true, want false", c)
		}
	}
}

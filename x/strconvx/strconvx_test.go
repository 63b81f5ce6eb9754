package strconvx

import "testing"

func TestItoaAtoiRoundTrip(t *testing.T) {
	for _, v := range []int{0, 1, -1, 42, -99999} {
		s := Itoa(v)
		got, err := Atoi(s)
		if err != nil {
			t.Fatalf("Atoi(%q): %v", s, err)
		}
		if got != v {
			t.Fatalf("Itoa/Atoi round trip: want %d, got %d", v, got)
		}
	}
}

func TestFormatIntUint(t *testing.T) {
	cases := []struct {
		u    uint64
		base int
		want string
	}{
		{0, 10, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{255, 10, "255"},
	}
	for _, c := range cases {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Errorf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
	if got := FormatInt(-15, 10); got != "-15" {
		t.Errorf("FormatInt(-15,10) = %q", got)
	}
}

func TestParseInt(t *testing.T) {
	cases := []struct {
		s    string
		want int64
	}{
		{"0", 0},
		{"+10", 10},
		{"-10", -10},
		{"4200", 4200},
	}
	for _, c := range cases {
		got, err := ParseInt(c.s, 10, 64)
		if err != nil {
			t.Fatalf("ParseInt(%q): %v", c.s, err)
		}
		if got != c.want {
			t.Errorf("ParseInt(%q) = %d, want %d", c.s, got, c.want)
		}
	}
	if _, err := ParseInt("", 10, 64); err == nil {
		t.Error("ParseInt(\"\") expected error")
	}
	if _, err := ParseInt("12x", 10, 64); err == nil {
		t.Error("ParseInt(\"12x\") expected error")
	}
}

func TestFormatFloatFixed(t *testing.T) {
	// Fixed-decimal output is the display canonicalizer's identity
	// function; both build variants must agree on these.
	cases := []struct {
		in   float64
		prec int
		want string
	}{
		{0, 0, "0"},
		{12.3, 1, "12.3"},
		{72.54, 1, "72.5"},
		{-1.25, 2, "-1.25"},
		{1013.2, 1, "1013.2"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.in, 'f', c.prec, 64); got != c.want {
			t.Errorf("FormatFloat(%v,'f',%d) = %q, want %q", c.in, c.prec, got, c.want)
		}
	}
	nan := 0.0
	nan /= nan
	if got := FormatFloat(nan, 'f', 1, 64); got != "NaN" {
		t.Errorf("FormatFloat(NaN) = %q", got)
	}
}

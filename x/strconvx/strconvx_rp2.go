//go:build rp2040 || rp2350

package strconvx

import "errors"

// Minimal allocation-aware formatters for RP2 builds. Bases 2..36.
// FormatFloat supports 'f' with a fixed precision, which is all the
// display canonicalizer needs; it is not IEEE round-trip exact.

var errSyntax = errors.New("strconvx: invalid syntax")

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func Atoi(s string) (int, error) {
	v, err := ParseInt(s, 10, 0)
	return int(v), err
}

func FormatInt(i int64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if i < 0 {
		return "-" + formatUint(uint64(-i), base)
	}
	return formatUint(uint64(i), base)
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

func formatUint(u uint64, base int) string {
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for {
		i--
		buf[i] = digits[u%b]
		u /= b
		if u == 0 {
			break
		}
	}
	return string(buf[i:])
}

func ParseInt(s string, base, bitSize int) (int64, error) {
	if s == "" {
		return 0, errSyntax
	}
	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}
	if base == 0 {
		base = 10
	}
	var v int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var dv int
		switch {
		case '0' <= c && c <= '9':
			dv = int(c - '0')
		case 'a' <= c && c <= 'z':
			dv = int(c-'a') + 10
		case 'A' <= c && c <= 'Z':
			dv = int(c-'A') + 10
		default:
			return 0, errSyntax
		}
		if dv >= base {
			return 0, errSyntax
		}
		v = v*int64(base) + int64(dv)
	}
	if neg {
		v = -v
	}
	return v, nil
}

// FormatFloat handles verb 'f' with prec >= 0. Other verbs fall back to
// 'f' with prec 6. Good enough for fixed-decimal display canonicals.
func FormatFloat(f float64, fmt byte, prec, bitSize int) string {
	if f != f {
		return "NaN"
	}
	if prec < 0 {
		prec = 6
	}
	neg := f < 0
	if neg {
		f = -f
	}
	scale := 1.0
	for i := 0; i < prec; i++ {
		scale *= 10
	}
	scaled := uint64(f*scale + 0.5)
	ip := scaled
	var fp uint64
	if prec > 0 {
		ip = scaled / uint64(scale)
		fp = scaled % uint64(scale)
	}
	out := formatUint(ip, 10)
	if prec > 0 {
		frac := formatUint(fp, 10)
		for len(frac) < prec {
			frac = "0" + frac
		}
		out += "." + frac
	}
	if neg && scaled != 0 {
		out = "-" + out
	}
	return out
}

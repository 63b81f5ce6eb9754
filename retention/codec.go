package retention

import "math"

// Little-endian scalar packing. The persisted layout is explicit and
// byte-addressed; no struct is written through unsafe tricks, so the
// in-memory representation can change freely without breaking resume.

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func getU16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putF32(b []byte, v float32) {
	putU32(b, math.Float32bits(v))
}

func getF32(b []byte) float32 {
	return math.Float32frombits(getU32(b))
}

package qoi

// Chunk tags. The two 8-bit tags are checked before the four 2-bit tags;
// 0xFE and 0xFF both have top bits 0b11 and would otherwise be mistaken for
// QOI_OP_RUN with lengths 63/64, which the format forbids.
const (
	opRGB   byte = 0xFE
	opRGBA  byte = 0xFF
	opIndex byte = 0x00 // top 2 bits 00
	opDiff  byte = 0x40 // top 2 bits 01
	opLuma  byte = 0x80 // top 2 bits 10
	opRun   byte = 0xC0 // top 2 bits 11

	tagMask   byte = 0xC0
	dataMask6 byte = 0x3F
)

// packDiff encodes a QOI_OP_DIFF chunk. dr, dg, db must each already be
// known to lie in [-2, 1] (checked by the caller via diffFits).
func packDiff(dr, dg, db int8) byte {
	return opDiff | uint8(dr+2)<<4 | uint8(dg+2)<<2 | uint8(db+2)
}

// diffFits reports whether dr, dg, db can be packed as QOI_OP_DIFF.
func diffFits(dr, dg, db int8) bool {
	return inRange(dr, -2, 1) && inRange(dg, -2, 1) && inRange(db, -2, 1)
}

// packLuma encodes a QOI_OP_LUMA chunk. dg, drDg, dbDg must already be known
// to fit their respective ranges (checked by the caller via lumaFits).
func packLuma(dg, drDg, dbDg int8) [2]byte {
	b0 := opLuma | uint8(dg+32)
	b1 := uint8(drDg+8)<<4 | uint8(dbDg+8)
	return [2]byte{b0, b1}
}

// lumaFits reports whether dg, drDg, dbDg can be packed as QOI_OP_LUMA.
func lumaFits(dg, drDg, dbDg int8) bool {
	return inRange(dg, -32, 31) && inRange(drDg, -8, 7) && inRange(dbDg, -8, 7)
}

// packRun encodes a QOI_OP_RUN chunk for a run of length runLen, which must
// be in [1, 62].
func packRun(runLen int) byte {
	return opRun | uint8(runLen-1)
}

func inRange(v int8, lo, hi int8) bool {
	return v >= lo && v <= hi
}

// wrapDelta reinterprets an 8-bit unsigned subtraction result as a two's
// complement delta: a raw byte of 0..127 is itself, 128..255 is that value
// minus 256.
func wrapDelta(cur, prev uint8) int8 {
	return int8(cur - prev)
}

package core

// Fixed-point arithmetic kernel. Everything here is a total function over
// its domain: overflow saturates to the representable extremes instead of
// wrapping or trapping, and every iteration count is fixed at compile time
// so worst-case execution time is constant.

// Fixed is a Q1.15 fixed-point scalar: int16 representation, one sign bit,
// 15 fractional bits, representing [-1, 1). Full scale is ±FixedMax.
type Fixed int16

const (
	// FixedMax and FixedMin are the saturation bounds of Fixed.
	FixedMax Fixed = 32767
	FixedMin Fixed = -32768

	// fixedShift is the number of fractional bits.
	fixedShift = 15
)

// Angle is a binary angle: a full turn is 65536, so wrapping arithmetic on
// the underlying integer is exactly arithmetic modulo one turn.
type Angle uint16

// clampFixed saturates a 32-bit intermediate to the Fixed range.
func clampFixed(v int32) Fixed {
	if v > int32(FixedMax) {
		return FixedMax
	}
	if v < int32(FixedMin) {
		return FixedMin
	}
	return Fixed(v)
}

// SatAdd returns a+b, saturating.
func SatAdd(a, b Fixed) Fixed {
	return clampFixed(int32(a) + int32(b))
}

// SatSub returns a-b, saturating.
func SatSub(a, b Fixed) Fixed {
	return clampFixed(int32(a) - int32(b))
}

// SatMul returns a*b, saturating. The only representable product that can
// overflow is FixedMin*FixedMin.
func SatMul(a, b Fixed) Fixed {
	return clampFixed((int32(a) * int32(b)) >> fixedShift)
}

// SatDiv returns a/b, saturating. Division by zero saturates to the sign
// of the dividend (FixedMax for zero), keeping the function total.
func SatDiv(a, b Fixed) Fixed {
	if b == 0 {
		if a < 0 {
			return FixedMin
		}
		return FixedMax
	}
	return clampFixed((int32(a) << fixedShift) / int32(b))
}

// cordicAtan holds atan(2^-i) in binary angle units (turn/65536).
var cordicAtan = [cordicIters]int32{
	8192, 4836, 2555, 1297, 651, 326, 163, 81, 41, 20, 10, 5, 3, 1, 1,
}

const (
	// cordicIters is the fixed CORDIC iteration count. 15 rounds give an
	// angle resolution below one binary-angle LSB.
	cordicIters = 15

	// cordicGain is 1/K = 0.607253 in Q1.15; starting the rotation from
	// (cordicGain, 0) pre-compensates the CORDIC gain.
	cordicGain = 19898
)

// SinCos computes (sin θ, cos θ) for a binary angle using CORDIC rotation.
// Unit magnitude is 32767; the combined magnitude error of the table
// rounding and shift truncation is bounded by 0.5% of full scale.
func SinCos(theta Angle) (sin, cos Fixed) {
	// Fold into the CORDIC convergence range (within ±quarter turn of
	// angle zero) by rotating a half turn and negating the outputs.
	z := int32(int16(theta))
	negate := false
	if z > 16384 {
		z -= 32768
		negate = true
	} else if z < -16384 {
		z += 32768
		negate = true
	}

	x := int32(cordicGain)
	y := int32(0)
	for i := 0; i < cordicIters; i++ {
		if z >= 0 {
			x, y, z = x-(y>>uint(i)), y+(x>>uint(i)), z-cordicAtan[i]
		} else {
			x, y, z = x+(y>>uint(i)), y-(x>>uint(i)), z+cordicAtan[i]
		}
	}

	if negate {
		x, y = -x, -y
	}
	return clampFixed(y), clampFixed(x)
}

// Sqrt32 computes the integer square root of a 32-bit value by the
// digit-by-digit method: 16 rounds, no multiplies, constant time.
func Sqrt32(v uint32) uint16 {
	var res uint32
	bit := uint32(1) << 30
	for bit > v {
		bit >>= 2
	}
	for bit != 0 {
		if v >= res+bit {
			v -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return uint16(res)
}

// ScaleBy16 scales x by factor, where factor runs 0..65535 for 0..1.
func ScaleBy16(x uint16, factor uint16) uint16 {
	return uint16(uint32(x) * uint32(factor) >> 16)
}

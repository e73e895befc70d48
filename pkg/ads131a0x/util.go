package ads131a0x

// Convert24To32 interprets a 3-byte, 24-bit signed value
// in two's complement form, MSB first, as a 32-bit int.
// The input is not modified.
func Convert24To32(data []byte) int32 {
	// data[0] is MSB. If top bit set => negative
	var u32 uint32
	u32 |= uint32(data[0]) << 16
	u32 |= uint32(data[1]) << 8
	u32 |= uint32(data[2])

	// sign extension
	if (u32 & 0x800000) != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}

// Convert32To24 writes the low 24 bits of code into dst[0:3], MSB first.
// Codes outside [MinCode, MaxCode] are clamped.
func Convert32To24(code int32, dst []byte) {
	if code > MaxCode {
		code = MaxCode
	} else if code < MinCode {
		code = MinCode
	}
	u32 := uint32(code)
	dst[0] = byte(u32 >> 16)
	dst[1] = byte(u32 >> 8)
	dst[2] = byte(u32)
}

// ToVoltage scales a code to volts: code / fullScale * vRef.
func ToVoltage(code int32, fullScale, vRef float64) float64 {
	return float64(code) / fullScale * vRef
}

// FromVoltage is the inverse of [ToVoltage], rounded toward zero and clamped to the code range.
func FromVoltage(volts, fullScale, vRef float64) int32 {
	c := volts / vRef * fullScale
	if c > MaxCode {
		return MaxCode
	}
	if c < MinCode {
		return MinCode
	}
	return int32(c)
}

// ReferenceVoltage is the reference an A_SYS_CFG value selects: the internal
// one when ASysCfgINTREFEN is set, otherwise external.
func ReferenceVoltage(aSysCfg byte, external float64) float64 {
	if aSysCfg&ASysCfgINTREFEN == 0 {
		return external
	}
	if aSysCfg&ASysCfgVREF4V != 0 {
		return InternalVRef4V
	}
	return InternalVRef2V442
}

// ConvertADCtoVolts converts a code with the configured reference.
func (adc *ADS131A0x) ConvertADCtoVolts(code int32) float64 {
	return ToVoltage(code, FullScale, adc.cfg.VRef)
}

// Package pixelqa defines the bit layout of the Level-2 pixel QA band and
// accessors for each condition. The band is an unsigned 16-bit integer per
// pixel in which individual bits, or 2-bit pairs, independently encode
// quality conditions.
//
// Bit layout (LSB first):
//
//	0      fill (pulled from Level-1 QA)
//	1      clear
//	2      water (generated at Level-2)
//	3      cloud shadow
//	4      snow
//	5      cloud (dilated at Level-2)
//	6-7    cloud confidence (0-3)
//	8-9    cirrus confidence (0-3, Landsat 8 only)
//	10     terrain occlusion (Landsat 8 only)
//	11-15  reserved
package pixelqa

// Bit positions in the pixel QA band
const (
	BitFill         = 0
	BitClear        = 1
	BitWater        = 2
	BitCloudShadow  = 3
	BitSnow         = 4
	BitCloud        = 5
	BitCloudConf1   = 6
	BitCloudConf2   = 7
	BitCirrusConf1  = 8
	BitCirrusConf2  = 9
	BitTerrainOccl  = 10
	singleBitMask   = 0x01
	doubleBitMask   = 0x03
)

// Confidence levels for the 2-bit cloud and cirrus confidence fields
const (
	LowConf      = 1
	ModerateConf = 2
	HighConf     = 3
)

// IsFill reports whether the pixel is fill (no data)
func IsFill(v uint16) bool {
	return (v>>BitFill)&singleBitMask == 1
}

// IsClear reports whether the pixel is flagged clear
func IsClear(v uint16) bool {
	return (v>>BitClear)&singleBitMask == 1
}

// IsWater reports whether the pixel is flagged water
func IsWater(v uint16) bool {
	return (v>>BitWater)&singleBitMask == 1
}

// IsCloudShadow reports whether the pixel is flagged cloud shadow
func IsCloudShadow(v uint16) bool {
	return (v>>BitCloudShadow)&singleBitMask == 1
}

// IsSnow reports whether the pixel is flagged snow
func IsSnow(v uint16) bool {
	return (v>>BitSnow)&singleBitMask == 1
}

// IsCloud reports whether the pixel is flagged cloud
func IsCloud(v uint16) bool {
	return (v>>BitCloud)&singleBitMask == 1
}

// IsTerrainOccluded reports whether the pixel is terrain occluded.
// Landsat 8 only.
func IsTerrainOccluded(v uint16) bool {
	return (v>>BitTerrainOccl)&singleBitMask == 1
}

// CloudConfidence returns the 2-bit cloud confidence (0-3)
func CloudConfidence(v uint16) uint8 {
	return uint8((v >> BitCloudConf1) & doubleBitMask)
}

// CirrusConfidence returns the 2-bit cirrus confidence (0-3).
// Landsat 8 only.
func CirrusConfidence(v uint16) uint8 {
	return uint8((v >> BitCirrusConf1) & doubleBitMask)
}

// HasBit reports whether the given bit is set in the pixel code
func HasBit(v uint16, bit int) bool {
	return (v>>uint(bit))&singleBitMask == 1
}

// DilatableBit reports whether bit is a defined single-bit condition that
// may be dilated. The 2-bit confidence fields (bits 6-9) are not boolean
// conditions and dilating one of their sub-bits is rejected, as are the
// reserved bits above terrain occlusion.
func DilatableBit(bit int) bool {
	switch bit {
	case BitFill, BitClear, BitWater, BitCloudShadow, BitSnow, BitCloud,
		BitTerrainOccl:
		return true
	}
	return false
}

// BitName returns the condition name for a defined bit, or "" for
// confidence sub-bits and reserved bits.
func BitName(bit int) string {
	switch bit {
	case BitFill:
		return "fill"
	case BitClear:
		return "clear"
	case BitWater:
		return "water"
	case BitCloudShadow:
		return "cloud shadow"
	case BitSnow:
		return "snow"
	case BitCloud:
		return "cloud"
	case BitTerrainOccl:
		return "terrain occlusion"
	}
	return ""
}

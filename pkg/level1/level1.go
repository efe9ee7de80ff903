// Package level1 provides accessors for the Landsat Collection 1 Level-1
// quality band (BQA). The band is an unsigned 16-bit integer per pixel:
//
//	0      designated fill
//	1      terrain occlusion (Landsat 8) / dropped pixel (Landsat 4-7)
//	2-3    radiometric saturation (0-3)
//	4      cloud
//	5-6    cloud confidence (0-3)
//	7-8    cloud shadow confidence (0-3)
//	9-10   snow/ice confidence (0-3)
//	11-12  cirrus confidence (0-3, Landsat 8 only)
//	13-15  reserved
package level1

import "math/bits"

// Sensor identifies which Landsat family produced the Level-1 QA band.
// The cirrus confidence and terrain occlusion conditions only exist for
// Landsat 8.
type Sensor int

const (
	SensorL47 Sensor = iota // Landsat 4-7 (TM, ETM+)
	SensorL8                // Landsat 8 (OLI/TIRS)
)

// Field masks in the Level-1 QA band
const (
	maskFill            = 0x0001
	maskOcclusionOrDrop = 0x0002
	maskRadiometricSat  = 0x000c
	maskCloud           = 0x0010
	maskCloudConf       = 0x0060
	maskCloudShadowConf = 0x0180
	maskSnowIceConf     = 0x0600
	maskCirrusConf      = 0x1800
)

// Confidence levels for the 2-bit confidence fields
const (
	NoConf       = 0 // not checked
	LowConf      = 1
	ModerateConf = 2
	HighConf     = 3
)

// field extracts a masked field, shifted down to its least significant bit
func field(v, mask uint16) uint8 {
	return uint8((v & mask) >> uint(bits.TrailingZeros16(mask)))
}

// IsFill reports whether the pixel is designated fill
func IsFill(v uint16) bool {
	return v&maskFill != 0
}

// IsTerrainOccluded reports whether the pixel is terrain occluded.
// Landsat 8 only; on Landsat 4-7 the same bit means dropped pixel.
func IsTerrainOccluded(v uint16) bool {
	return v&maskOcclusionOrDrop != 0
}

// IsDroppedPixel reports whether the pixel is a dropped pixel.
// Landsat 4-7 only; on Landsat 8 the same bit means terrain occlusion.
func IsDroppedPixel(v uint16) bool {
	return v&maskOcclusionOrDrop != 0
}

// RadiometricSaturation returns the 2-bit saturation level (0-3)
func RadiometricSaturation(v uint16) uint8 {
	return field(v, maskRadiometricSat)
}

// IsCloud reports whether the pixel is flagged cloud
func IsCloud(v uint16) bool {
	return v&maskCloud != 0
}

// CloudConfidence returns the 2-bit cloud confidence (0-3)
func CloudConfidence(v uint16) uint8 {
	return field(v, maskCloudConf)
}

// CloudShadowConfidence returns the 2-bit cloud shadow confidence (0-3)
func CloudShadowConfidence(v uint16) uint8 {
	return field(v, maskCloudShadowConf)
}

// SnowIceConfidence returns the 2-bit snow/ice confidence (0-3)
func SnowIceConfidence(v uint16) uint8 {
	return field(v, maskSnowIceConf)
}

// CirrusConfidence returns the 2-bit cirrus confidence (0-3).
// Landsat 8 only.
func CirrusConfidence(v uint16) uint8 {
	return field(v, maskCirrusConf)
}

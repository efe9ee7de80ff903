// Package classqa defines the class values of the 8-bit Level-2 class QA
// band. Unlike the bit-packed pixel QA, the whole byte is one mutually
// exclusive category.
package classqa

// Class values stored in the 8-bit QA band
const (
	Clear       = 0
	Water       = 1
	CloudShadow = 2
	Snow        = 3
	Cloud       = 4
	Fill        = 255
)

// IsFill reports whether the pixel is fill (no data)
func IsFill(v uint8) bool {
	return v == Fill
}

// ClassName returns the category name for a defined class value, or ""
// for values outside the defined set.
func ClassName(class uint8) string {
	switch class {
	case Clear:
		return "clear"
	case Water:
		return "water"
	case CloudShadow:
		return "cloud shadow"
	case Snow:
		return "snow"
	case Cloud:
		return "cloud"
	case Fill:
		return "fill"
	}
	return ""
}

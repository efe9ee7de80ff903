package classqa

import (
	"landsatqa/pkg/level1"
	"landsatqa/pkg/raster"
)

// Generate builds the 8-bit class QA band from a Level-1 QA raster.
//
// Classes are assigned in precedence order: fill, then cloud, then snow,
// then cloud shadow, and clear otherwise. Water is not available in the
// Level-1 QA. Snow and cloud shadow require high confidence in the
// corresponding Level-1 confidence field.
func Generate(l1 *raster.Uint16) (*raster.Uint8, error) {
	out, err := raster.NewUint8(l1.Rows, l1.Cols)
	if err != nil {
		return nil, err
	}

	for i, v := range l1.Pix {
		switch {
		case level1.IsFill(v):
			out.Pix[i] = Fill
		case level1.IsCloud(v):
			out.Pix[i] = Cloud
		case level1.SnowIceConfidence(v) == level1.HighConf:
			out.Pix[i] = Snow
		case level1.CloudShadowConfidence(v) == level1.HighConf:
			out.Pix[i] = CloudShadow
		default:
			out.Pix[i] = Clear
		}
	}

	return out, nil
}

package pixelqa

import (
	"landsatqa/pkg/level1"
	"landsatqa/pkg/raster"
)

// Generate builds the Level-2 pixel QA band from a Level-1 QA raster.
//
// Every pixel starts out clear. The clear bit is turned off whenever any
// condition is turned on, except for low or moderate cloud/cirrus
// confidence. Water is not available in the Level-1 QA. The snow bit is
// driven by the snow/ice confidence and the cloud shadow bit by the cloud
// shadow confidence: both require high confidence (both confidence bits
// set). Cirrus confidence and terrain occlusion only apply to Landsat 8
// and never affect the clear bit.
func Generate(l1 *raster.Uint16, sensor level1.Sensor) (*raster.Uint16, error) {
	out, err := raster.NewUint16(l1.Rows, l1.Cols)
	if err != nil {
		return nil, err
	}

	for i, v := range l1.Pix {
		qa := uint16(1) << BitClear

		if level1.IsFill(v) {
			// Fill pixels carry only the fill bit
			out.Pix[i] = 1 << BitFill
			continue
		}

		if level1.CloudShadowConfidence(v) == level1.HighConf {
			qa &^= 1 << BitClear
			qa |= 1 << BitCloudShadow
		}

		if level1.SnowIceConfidence(v) == level1.HighConf {
			qa &^= 1 << BitClear
			qa |= 1 << BitSnow
		}

		if level1.IsCloud(v) {
			qa &^= 1 << BitClear
			qa |= 1 << BitCloud
		}

		switch level1.CloudConfidence(v) {
		case level1.LowConf:
			qa |= 1 << BitCloudConf1
		case level1.ModerateConf:
			qa |= 1 << BitCloudConf2
		case level1.HighConf:
			qa &^= 1 << BitClear
			qa |= 1 << BitCloudConf1
			qa |= 1 << BitCloudConf2
		}

		if sensor == level1.SensorL8 {
			switch level1.CirrusConfidence(v) {
			case level1.LowConf:
				qa |= 1 << BitCirrusConf1
			case level1.ModerateConf:
				qa |= 1 << BitCirrusConf2
			case level1.HighConf:
				qa |= 1 << BitCirrusConf1
				qa |= 1 << BitCirrusConf2
			}

			if level1.IsTerrainOccluded(v) {
				qa |= 1 << BitTerrainOccl
			}
		}

		out.Pix[i] = qa
	}

	return out, nil
}

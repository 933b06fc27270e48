package filter

import "image/color"

func colorAlpha(a uint8) color.Alpha { return color.Alpha{A: a} }

package service

// Brightness 三通道算术平均，保留小数不取整
func Brightness(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Saturation 最大通道与最小通道之差
func Saturation(r, g, b uint8) uint8 {
	maxC, minC := r, r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	return maxC - minC
}

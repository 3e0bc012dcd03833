package noisegeneration

// Hash32 перемешивает 32-битное значение (финализатор в стиле Murmur)
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash2 - стабильный хеш зерна и двумерной координаты
func Hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	return Hash32(h)
}

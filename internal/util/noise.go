package util

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	noiseAlpha   = 2.0 // Сглаживание шума
	noiseBeta    = 2.0 // Частота шума
	noiseOctaves = 3   // Количество октав
)

// NoiseField - поле шума Перлина с фиксированным сидом и масштабом.
// Каждое поле владеет своим генератором, глобального состояния нет.
type NoiseField struct {
	noise *perlin.Perlin
	scale float64
}

// NewNoiseField создаёт поле шума
func NewNoiseField(seed int64, scale float64) *NoiseField {
	if scale <= 0 {
		scale = 1
	}
	return &NoiseField{
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		scale: scale,
	}
}

// At возвращает значение шума в клетке (x, y) в диапазоне от 0 до 1
func (f *NoiseField) At(x, y int) float64 {
	// Значение шума от -1 до 1
	n := f.noise.Noise2D(float64(x)*f.scale, float64(y)*f.scale)

	v := (n + 1.0) / 2.0
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the radix-2 transform of data. Lengths that are not a power
// of two are truncated to the largest power of two that fits.
func FFT(data []float64) []complex128 {
	data = data[:floorPow2(len(data))]
	return fft(data)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func floorPow2(n int) int {
	if n <= 0 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// PowerSpectrum returns the magnitudes of the first half of the FFT, with
// the mean removed so bin 0 does not dominate.
func PowerSpectrum(data []float64) []float64 {
	centered := make([]float64, len(data))
	mean := Mean(data)
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := FFT(centered)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// for a channel sampled at sampleRate Hz. It returns 0 when the channel is
// too short or flat.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if ps[best] == 0 {
		return 0
	}

	n := 2 * len(ps)
	return float64(best) * sampleRate / float64(n)
}

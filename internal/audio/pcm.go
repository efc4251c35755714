package audio

import "encoding/binary"

// mono16k downmixes to one channel and resamples to SampleRate.
func (p pcm) mono16k() []float32 {
	mono := downmix(p.samples, p.channels)
	return resampleLinear(mono, p.rate, SampleRate)
}

// downmix averages interleaved channels into one.
func downmix(samples []float32, channels int) []float32 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// resampleLinear converts sample rate by linear interpolation.
func resampleLinear(samples []float32, srcRate, dstRate int) []float32 {
	if srcRate <= 0 || srcRate == dstRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(srcRate) / float64(dstRate)
	newLen := int(float64(len(samples)) / ratio)
	resampled := make([]float32, newLen)

	for i := 0; i < newLen; i++ {
		srcPos := float64(i) * ratio
		srcIdx := int(srcPos)
		frac := float32(srcPos - float64(srcIdx))

		if srcIdx+1 < len(samples) {
			resampled[i] = samples[srcIdx]*(1-frac) + samples[srcIdx+1]*frac
		} else if srcIdx < len(samples) {
			resampled[i] = samples[srcIdx]
		}
	}

	return resampled
}

// int16LEToFloat32 converts signed 16-bit little-endian PCM.
func int16LEToFloat32(raw []byte) []float32 {
	out := make([]float32, len(raw)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(raw[i*2:]))) / 32768.0
	}
	return out
}

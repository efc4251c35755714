package audio

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// decodeWAV reads integer PCM WAV of any bit depth and 32-bit IEEE float
// WAV. Other encodings are rejected so the caller can fall back to ffmpeg.
func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("not a valid wav file")
	}

	isFloat := false
	switch {
	case dec.WavAudioFormat == wavFormatPCM:
	case dec.WavAudioFormat == wavFormatFloat && dec.BitDepth == 32:
		isFloat = true
	default:
		return pcm{}, fmt.Errorf("%w: wav format tag %#x, %d-bit", ErrUnsupportedFormat, dec.WavAudioFormat, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, fmt.Errorf("read wav samples: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return pcm{}, fmt.Errorf("wav file has no format chunk")
	}

	if isFloat {
		samples := make([]float32, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = math.Float32frombits(uint32(int32(v)))
		}
		return pcm{
			samples:  samples,
			channels: buf.Format.NumChannels,
			rate:     buf.Format.SampleRate,
		}, nil
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		if bitDepth == 8 {
			v -= 128
		}
		samples[i] = float32(v) / scale
	}

	return pcm{
		samples:  samples,
		channels: buf.Format.NumChannels,
		rate:     buf.Format.SampleRate,
	}, nil
}

// decodeMP3 reads MP3; go-mp3 always yields 16-bit little-endian stereo.
func decodeMP3(r io.ReadSeeker) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, fmt.Errorf("open mp3 stream: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, fmt.Errorf("read mp3 samples: %w", err)
	}

	return pcm{
		samples:  int16LEToFloat32(raw),
		channels: 2,
		rate:     dec.SampleRate(),
	}, nil
}

// decodeOGG reads Ogg Vorbis.
func decodeOGG(r io.ReadSeeker) (pcm, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return pcm{}, fmt.Errorf("read ogg vorbis: %w", err)
	}

	return pcm{
		samples:  samples,
		channels: format.Channels,
		rate:     format.SampleRate,
	}, nil
}

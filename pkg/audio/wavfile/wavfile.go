// Package wavfile reads and writes the mono WAV recordings fed to the
// recognizer. It stands in for the capture subsystem: the recognizer core
// only ever sees the decoded sample buffers.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/word-recognizer/pkg/audio"
)

var (
	ErrInvalidFile        = errors.New("not a valid WAV file")
	ErrSampleRateMismatch = errors.New("unexpected sample rate")
)

// Recording is a decoded WAV file downmixed to mono
type Recording struct {
	Path       string       `json:"path,omitempty"`
	Samples    audio.Buffer `json:"-"`
	SampleRate int          `json:"sample_rate"`
	Channels   int          `json:"channels"`
	BitDepth   int          `json:"bit_depth"`
}

// Load decodes the WAV file at path
func Load(path string) (*Recording, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	rec, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	rec.Path = path
	return rec, nil
}

// LoadMono decodes path and checks it was recorded at sampleRate
func LoadMono(path string, sampleRate int) (audio.Buffer, error) {
	rec, err := Load(path)
	if err != nil {
		return nil, err
	}
	if rec.SampleRate != sampleRate {
		return nil, fmt.Errorf("%w: %s is %d Hz, expected %d Hz", ErrSampleRateMismatch, path, rec.SampleRate, sampleRate)
	}
	return rec.Samples, nil
}

// WAV format tags understood by Decode
const (
	formatPCM        = 1
	formatIEEEFloat  = 3
	formatExtensible = 0xFFFE
)

// Decode reads integer PCM or 32-bit IEEE float WAV data, scales it to
// [-1, 1] and averages all channels into one. Other encodings are rejected
// with ErrInvalidFile.
func Decode(r io.ReadSeeker) (*Recording, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}

	bitDepth := int(decoder.BitDepth)
	format := int(decoder.WavAudioFormat)
	switch format {
	case formatPCM, formatExtensible:
	case formatIEEEFloat:
		if bitDepth != 32 {
			return nil, fmt.Errorf("%w: %d-bit float samples are not supported", ErrInvalidFile, bitDepth)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported audio format %d", ErrInvalidFile, format)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		channels = 1
	}

	sample := func(v int) float64 { return normalize(v, bitDepth) }
	if format == formatIEEEFloat {
		sample = floatSample
	}

	return &Recording{
		Samples:    downmix(pcm.Data, channels, sample),
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   bitDepth,
	}, nil
}

func downmix(data []int, channels int, sample func(int) float64) audio.Buffer {
	frames := len(data) / channels
	out := make(audio.Buffer, frames)

	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += sample(data[f*channels+c])
		}
		out[f] = sum / float64(channels)
	}
	return out
}

func normalize(v, bitDepth int) float64 {
	// 8-bit WAV is unsigned
	if bitDepth == 8 {
		return float64(v-128) / 128
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return float64(v) / float64(int(1)<<(bitDepth-1))
}

// floatSample recovers a float32 sample from the raw 32-bit word the
// decoder stores as a signed integer
func floatSample(v int) float64 {
	return float64(math.Float32frombits(uint32(int32(v))))
}

// Save writes samples as a 16-bit mono PCM WAV file, the format used for
// exported recordings and test fixtures. Samples outside [-1, 1] are clipped.
func Save(path string, samples audio.Buffer, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}

	const bitDepth = 16
	encoder := wav.NewEncoder(file, sampleRate, bitDepth, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * math.MaxInt16))
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		file.Close()
		return fmt.Errorf("failed to write PCM data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return file.Close()
}

package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"antipop/internal/circuit"
	"antipop/internal/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func powerUpSamples(n int) []history.Sample {
	p := circuit.DefaultParams()
	series := history.NewSeries(history.DefaultCapacity)
	for _, st := range circuit.Run(circuit.Initial().TogglePower(), p, n) {
		series = history.EveryTick.Record(series, st)
	}
	return series.Samples()
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sdz.png")
	require.NoError(t, Save(powerUpSamples(80), DefaultOptions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestSaveEmptySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.svg")
	require.NoError(t, Save(nil, DefaultOptions(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestSaveSingleSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.png")
	assert.NoError(t, Save(powerUpSamples(1), DefaultOptions(), path))
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sdz.bmp")
	err := Save(powerUpSamples(5), DefaultOptions(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFormats(t *testing.T) {
	samples := powerUpSamples(60)

	var png bytes.Buffer
	require.NoError(t, Write(&png, samples, DefaultOptions(), "PNG"))
	assert.True(t, bytes.HasPrefix(png.Bytes(), pngMagic))

	var svg bytes.Buffer
	require.NoError(t, Write(&svg, samples, DefaultOptions(), "svg"))
	assert.Contains(t, svg.String(), "<svg")

	var pdf bytes.Buffer
	require.NoError(t, Write(&pdf, samples, DefaultOptions(), "pdf"))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))

	assert.ErrorIs(t, Write(&bytes.Buffer{}, samples, DefaultOptions(), "gif"), ErrUnsupportedFormat)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]string{
		"a.png": "png", "b.SVG": "svg", "dir/c.pdf": "pdf",
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestZeroSizeUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Threshold: 2}
	assert.NoError(t, Write(&buf, powerUpSamples(10), opts, "svg"))
	assert.NotZero(t, buf.Len())
}

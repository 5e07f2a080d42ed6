package pointfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1F47E/psf-grid/pkg/grid"
	"github.com/1F47E/psf-grid/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []models.Point {
	return []models.Point{
		{Latitude: 0, Longitude: 0, Depth: 2000, Sign: 1, SigmaH: 100, SigmaV: 100},
		{Latitude: 45, Longitude: 22.5, Depth: 2000, Sign: -1, SigmaH: 100, SigmaV: 100},
		{Latitude: -90, Longitude: 0, Depth: 2000, Sign: 1, SigmaH: 100, SigmaV: 100},
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, samplePoints()[:1]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1", lines[0])
	assert.Equal(t,
		"        latitude       longitude       depth(km)        sign     sigma_h(km)     sigma_v(km)",
		lines[1])
	assert.Equal(t,
		"            0.00            0.00         2000.00           1           100.0           100.0",
		lines[2])
	assert.Len(t, lines[1], 16*5+12)
	assert.Len(t, lines[2], 16*5+12)
}

func TestRoundTripThreePoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.txt")
	require.NoError(t, WriteFile(path, samplePoints()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "3\n"))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, samplePoints(), got)
}

func TestRoundTripPrecision(t *testing.T) {
	layout, err := grid.NewGenerator(nil).PointsAtDepth(1000, 1100, 100.04, 33.36)
	require.NoError(t, err)
	points := layout.Points

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, points))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(points))

	for i, p := range points {
		assert.InDelta(t, p.Latitude, got[i].Latitude, 0.005+1e-9)
		assert.InDelta(t, p.Longitude, got[i].Longitude, 0.005+1e-9)
		assert.InDelta(t, p.Depth, got[i].Depth, 0.005+1e-9)
		assert.Equal(t, p.Sign, got[i].Sign)
		assert.InDelta(t, p.SigmaH, got[i].SigmaH, 0.05+1e-9)
		assert.InDelta(t, p.SigmaV, got[i].SigmaV, 0.05+1e-9)
	}
}

func TestReadEmptySet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadCountMismatch(t *testing.T) {
	for _, declared := range []string{"2", "4", "0"} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, samplePoints()))
		content := declared + buf.String()[1:]

		got, err := Read(strings.NewReader(content))
		assert.Nil(t, got)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCountMismatch)

		var ferr *FormatError
		assert.True(t, errors.As(err, &ferr))
	}
}

func TestReadFileCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	content := "5\nheader\n 1 2 3 1 4 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ReadFile(path)
	var ferr *FormatError
	require.True(t, errors.As(err, &ferr))
	assert.ErrorIs(t, err, ErrCountMismatch)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
	}{
		{"empty", "", 0},
		{"bad count", "three\nheader\n", 1},
		{"negative count", "-1\nheader\n", 1},
		{"missing header", "1\n", 0},
		{"short row", "1\nheader\n1 2 3 1 4\n", 3},
		{"not a number", "1\nheader\n1 2 x 1 4 5\n", 3},
		{"fractional sign", "1\nheader\n1 2 3 0.5 4 5\n", 3},
		{"infinite sign", "1\nheader\n1 2 3 inf 4 5\n", 3},
		{"huge sign", "1\nheader\n1 2 3 1e300 4 5\n", 3},
		{"sign out of range", "1\nheader\n1 2 3 3 4 5\n", 3},
		{"zero sign", "1\nheader\n1 2 3 -0 4 5\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.content))
			assert.Nil(t, got)

			var ferr *FormatError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, tt.line, ferr.Line)
		})
	}
}

func TestReadAcceptsFloatSign(t *testing.T) {
	content := "2\nlatitude longitude depth sign sigma_h sigma_v\n" +
		"10.5 20.25 300 1.0 100 50\n" +
		"\n" +
		"-10.5 340 300 -1.0 100 50\n\n"

	got, err := Read(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Sign)
	assert.Equal(t, -1, got[1].Sign)
	assert.Equal(t, 340.0, got[1].Longitude)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

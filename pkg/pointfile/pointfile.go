// Package pointfile reads and writes point sets in the fixed-width text
// format: a count line, a label line, then one row per point.
package pointfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1F47E/psf-grid/pkg/models"
)

const (
	headerFormat = "%16s%16s%16s%12s%16s%16s\n"
	rowFormat    = "%16.2f%16.2f%16.2f%12d%16.1f%16.1f\n"
	numColumns   = 6
)

// Labels are the column names written on the second line.
var Labels = [numColumns]string{"latitude", "longitude", "depth(km)", "sign", "sigma_h(km)", "sigma_v(km)"}

// ErrCountMismatch is wrapped by the FormatError returned when the declared
// count differs from the number of rows.
var ErrCountMismatch = errors.New("npts error")

// FormatError describes a malformed point file. Line is 1-based, 0 when the
// error concerns the file as a whole.
type FormatError struct {
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("point file line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("point file: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Write serializes points to w.
func Write(w io.Writer, points []models.Point) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d\n", len(points)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, headerFormat,
		Labels[0], Labels[1], Labels[2], Labels[3], Labels[4], Labels[5]); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, rowFormat,
			p.Latitude, p.Longitude, p.Depth, p.Sign, p.SigmaH, p.SigmaV); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes points to the named file, replacing it.
func WriteFile(filename string, points []models.Point) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, points); err != nil {
		file.Close()
		return fmt.Errorf("failed to write points: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// Read parses a point file. Blank lines are ignored. Either all declared
// points are returned or an error.
func Read(r io.Reader) ([]models.Point, error) {
	scanner := bufio.NewScanner(r)

	lineNo := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	countLine, ok := next()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, &FormatError{Err: errors.New("missing point count")}
	}
	npts, err := strconv.Atoi(countLine)
	if err != nil || npts < 0 {
		return nil, &FormatError{Line: lineNo, Err: fmt.Errorf("invalid point count %q", countLine)}
	}

	if _, ok := next(); !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, &FormatError{Err: errors.New("missing header line")}
	}

	points := make([]models.Point, 0, npts)
	for {
		line, ok := next()
		if !ok {
			break
		}
		p, err := parseRow(line)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Err: err}
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(points) != npts {
		return nil, &FormatError{
			Err: fmt.Errorf("%w: header declares %d points, found %d", ErrCountMismatch, npts, len(points)),
		}
	}
	return points, nil
}

// ReadFile loads the named point file.
func ReadFile(filename string) ([]models.Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	points, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return points, nil
}

func parseRow(line string) (models.Point, error) {
	tokens := strings.Fields(line)
	if len(tokens) != numColumns {
		return models.Point{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(tokens))
	}

	var vs [numColumns]float64
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return models.Point{}, fmt.Errorf("column %s: %w", Labels[i], err)
		}
		vs[i] = v
	}
	if vs[3] != 1 && vs[3] != -1 {
		return models.Point{}, fmt.Errorf("sign %v is not 1 or -1", vs[3])
	}

	return models.Point{
		Latitude:  vs[0],
		Longitude: vs[1],
		Depth:     vs[2],
		Sign:      int(vs[3]),
		SigmaH:    vs[4],
		SigmaV:    vs[5],
	}, nil
}

// Package waterfall implements the scrolling spectrum history and the
// controller that drives one pipeline pass per display tick.
package waterfall

import (
	"errors"
	"fmt"
)

// DefaultFloorDB fills fresh waterfall cells; a conservative low floor.
const DefaultFloorDB = -120.0

var ErrSpectrumSize = errors.New("spectrum length does not match buffer columns")

// Buffer is a fixed-row scrolling matrix of leveled spectra. Row 0 is the
// oldest spectrum, the last row the newest. The row count never changes
// after construction; the column count only changes through Resize.
type Buffer struct {
	rows [][]float64
	cols int
}

func NewBuffer(rows, cols int, fill float64) *Buffer {
	if rows <= 0 || cols <= 0 {
		panic("bad waterfall shape")
	}
	b := &Buffer{rows: make([][]float64, rows)}
	b.Resize(cols, fill)
	return b
}

// Push clamps spectrum into [floor, ceiling], scrolls every row up one,
// and writes the clamped values into the last row. The evicted oldest row
// is reused as the new tail, so pushing does not allocate.
func (b *Buffer) Push(spectrum []float64, floor, ceiling float64) error {
	if len(spectrum) != b.cols {
		return fmt.Errorf("%w: have %d, want %d", ErrSpectrumSize, len(spectrum), b.cols)
	}
	tail := b.rows[0]
	copy(b.rows, b.rows[1:])
	b.rows[len(b.rows)-1] = tail
	for i, v := range spectrum {
		if v < floor {
			v = floor
		} else if v > ceiling {
			v = ceiling
		}
		tail[i] = v
	}
	return nil
}

// Resize reallocates to the new column count and fills every cell with
// fill. History is discarded, never resampled.
func (b *Buffer) Resize(cols int, fill float64) {
	if cols <= 0 {
		panic("bad waterfall shape")
	}
	b.cols = cols
	for i := range b.rows {
		row := make([]float64, cols)
		for j := range row {
			row[j] = fill
		}
		b.rows[i] = row
	}
}

func (b *Buffer) Rows() int { return len(b.rows) }
func (b *Buffer) Cols() int { return b.cols }

// Matrix returns the live backing rows; the pipeline goroutine owns it.
func (b *Buffer) Matrix() [][]float64 { return b.rows }

// Row returns the live backing slice for one row.
func (b *Buffer) Row(i int) []float64 { return b.rows[i] }

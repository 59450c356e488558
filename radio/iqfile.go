package radio

import (
	"fmt"
	"io"
	"os"
)

// fileSource replays a raw u8 I/Q stream as a SampleSource. Configure only
// records the requested band; gain is meaningless for playback.
type fileSource struct {
	iqr    *IQReader
	band   HzBand
	closer io.Closer
	closed bool
}

// NewFileSource opens an .iq8 file, or stdin for "-".
func NewFileSource(path string, band HzBand) (SampleSource, error) {
	if path == "-" || path == "-.iq8" {
		return &fileSource{iqr: NewIQReader(os.Stdin), band: band}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &fileSource{iqr: NewIQReader(f), band: band, closer: f}, nil
}

func (fs *fileSource) Configure(band HzBand, gain Gain) error {
	fs.band = band
	return nil
}

func (fs *fileSource) ReadBlock(n int) ([]complex64, error) {
	if fs.closed {
		return nil, io.EOF
	}
	samps, err := fs.iqr.ReadBlock(n)
	if err != nil {
		return nil, fmt.Errorf("iq stream: %w", err)
	}
	return samps, nil
}

func (fs *fileSource) Close() error {
	if fs.closed {
		return nil
	}
	fs.closed = true
	if fs.closer != nil {
		return fs.closer.Close()
	}
	return nil
}

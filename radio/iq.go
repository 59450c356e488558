package radio

import (
	"io"
)

// IQReader decodes u8 interleaved I/Q samples from a stream.
type IQReader struct {
	r   io.Reader
	buf []byte
}

// NewIQReader takes a reader that uses u8 I/Q samples.
func NewIQReader(r io.Reader) *IQReader {
	if r == nil {
		panic("nil reader")
	}
	return &IQReader{r: r}
}

// ReadBlock blocks until n samples are decoded or the stream fails.
func (iq *IQReader) ReadBlock(n int) ([]complex64, error) {
	if cap(iq.buf) < 2*n {
		iq.buf = make([]byte, 2*n)
	}
	buf := iq.buf[:2*n]
	if _, err := io.ReadFull(iq.r, buf); err != nil {
		return nil, err
	}
	samps := make([]complex64, n)
	for i := 0; i < n; i++ {
		samps[i] = complex(
			(float32(buf[2*i])-127)/128.0,
			(float32(buf[2*i+1])-127)/128.0)
	}
	return samps, nil
}

type IQWriter struct{ w io.Writer }

func NewIQWriter(w io.Writer) *IQWriter { return &IQWriter{w} }

func (iq *IQWriter) Write64(out []complex64) error {
	buf := make([]byte, 2*len(out))
	for i := range out {
		buf[2*i] = byte((real(out[i]) * 128.0) + 127.0)
		buf[2*i+1] = byte((imag(out[i]) * 128.0) + 127.0)
	}
	_, err := iq.w.Write(buf)
	return err
}

package main

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/chzchzchz/iqfall/radio"
)

// recordingSource tees raw sample blocks to an iq8 file while armed. The
// toggle runs on the UI thread; reads run on the pipeline goroutine.
type recordingSource struct {
	radio.SampleSource

	mu  sync.Mutex
	f   *os.File
	iqw *radio.IQWriter
}

func newRecordingSource(src radio.SampleSource) *recordingSource {
	return &recordingSource{SampleSource: src}
}

func (r *recordingSource) ReadBlock(n int) ([]complex64, error) {
	samps, err := r.SampleSource.ReadBlock(n)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if r.iqw != nil {
		if werr := r.iqw.Write64(samps); werr != nil {
			log.Println("failed to write capture:", werr)
			r.stopLocked()
		}
	}
	r.mu.Unlock()
	return samps, nil
}

func (r *recordingSource) toggle(band radio.HzBand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.iqw != nil {
		log.Println("stop writing", r.f.Name())
		r.stopLocked()
		return
	}
	path := fmt.Sprintf("%d[%d].iq8", band.Center, band.Width)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		log.Println("failed to open", path, err)
		return
	}
	log.Println("start writing", path)
	r.f, r.iqw = f, radio.NewIQWriter(f)
}

func (r *recordingSource) stopLocked() {
	r.f.Close()
	r.f, r.iqw = nil, nil
}

func (r *recordingSource) Close() error {
	r.mu.Lock()
	if r.iqw != nil {
		r.stopLocked()
	}
	r.mu.Unlock()
	return r.SampleSource.Close()
}

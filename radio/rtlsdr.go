package radio

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/kr/pty"
)

var minFreqHz = uint32(25000000)
var maxFreqHz = uint32(1750000000)

const rtlTCPAddr = "127.0.0.1:12345"

// rtlSDR runs an rtl_tcp child process and exposes it as a SampleSource.
type rtlSDR struct {
	sdr  *RTLTCPSDR
	cmd  *exec.Cmd
	fpty *os.File
	// device serial number or device index
	serialNumber string

	lastCenter     uint32
	lastSampleRate uint32
	lastGain       Gain
	gainSet        bool

	iqr    *IQReader
	closed bool
	mu     sync.Mutex
}

func newRTLSDR(ctx context.Context, ser string) (*rtlSDR, error) {
	// TODO: support different ports
	cmd := exec.CommandContext(ctx, "rtl_tcp", "-a", "127.0.0.1", "-p", "12345", "-d", ser, "-s", "240000")
	fpty, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	go io.Copy(os.Stdout, fpty)
	// Would like to wait for 'listening...' but need tty to line-buffer.
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &rtlSDR{fpty: fpty, cmd: cmd, serialNumber: ser}, nil
}

func (s *rtlSDR) Configure(b HzBand, g Gain) error {
	if b.Center < uint64(minFreqHz) || b.Center > uint64(maxFreqHz) {
		return ErrFrequencyOutOfRange
	}
	if !isValidRate(uint32(b.Width)) {
		return ErrRateOutOfRange
	}
	if err := s.initSDR(); err != nil {
		return err
	}

	newFreq, newRate := uint32(b.Center), uint32(b.Width)
	retuned := false
	if s.lastCenter != newFreq {
		if err := s.sdr.SetCenterFreq(newFreq); err != nil {
			return err
		}
		s.lastCenter, retuned = newFreq, true
	}
	if s.lastSampleRate != newRate {
		if err := s.sdr.SetSampleRate(newRate); err != nil {
			return err
		}
		s.lastSampleRate, retuned = newRate, true
	}
	if !s.gainSet || s.lastGain != g {
		if err := s.setGain(g); err != nil {
			return err
		}
		s.lastGain, s.gainSet = g, true
	}
	if !retuned {
		return nil
	}

	// Reset connection so following reads get the new tuned band.
	return s.resetConn()
}

func (s *rtlSDR) setGain(g Gain) error {
	if g.IsAuto() {
		if err := s.sdr.SetGainMode(true); err != nil {
			return err
		}
		return s.sdr.SetAGCMode(true)
	}
	db, _ := g.DB()
	if err := s.sdr.SetAGCMode(false); err != nil {
		return err
	}
	if err := s.sdr.SetGainMode(false); err != nil {
		return err
	}
	return s.sdr.SetGain(uint32(db * 10.0))
}

func (s *rtlSDR) ReadBlock(n int) ([]complex64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, io.EOF
	}
	if s.sdr == nil {
		if err := s.resetConnLocked(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	iqr := s.iqr
	s.mu.Unlock()

	samps, err := iqr.ReadBlock(n)
	if err != nil {
		return nil, fmt.Errorf("sdr read: %w", err)
	}
	return samps, nil
}

func (s *rtlSDR) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.stop()
	s.fpty.Close()
	return s.cmd.Wait()
}

func (s *rtlSDR) stop() {
	if s.sdr == nil {
		return
	}
	s.sdr.Close()
	s.sdr, s.iqr = nil, nil
}

func (s *rtlSDR) resetConn() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resetConnLocked()
}

func (s *rtlSDR) resetConnLocked() error {
	s.stop()
	sdr, err := connect(context.TODO())
	if err != nil {
		return err
	}
	s.sdr, s.iqr = sdr, NewIQReader(sdr)
	return nil
}

// Rates between 300k and 900k drop samples on the dongle; reject them.
func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}

func connect(ctx context.Context) (*RTLTCPSDR, error) {
	addr, err := net.ResolveTCPAddr("tcp4", rtlTCPAddr)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 10; i++ {
		sdr := &RTLTCPSDR{}
		if err = sdr.Connect(addr); err == nil {
			return sdr, nil
		}
		time.Sleep(100 * time.Millisecond)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, err
}

func (s *rtlSDR) initSDR() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sdr == nil {
		return s.resetConnLocked()
	}
	return nil
}

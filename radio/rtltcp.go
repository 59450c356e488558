package radio

import (
	"encoding/binary"
	"fmt"
	"net"
)

var dongleMagic = [...]byte{'R', 'T', 'L', '0'}

// RTLTCPSDR contains dongle information and an embedded tcp connection to the
// rtl_tcp spectrum server. Reads on the connection yield u8 I/Q samples.
type RTLTCPSDR struct {
	*net.TCPConn
	Info DongleInfo
}

// Connect dials the spectrum server at the given address and reads the
// dongle header. The caller is responsible for closing the connection.
func (sdr *RTLTCPSDR) Connect(addr *net.TCPAddr) (err error) {
	if sdr.TCPConn, err = net.DialTCP("tcp", nil, addr); err != nil {
		return fmt.Errorf("error connecting to spectrum server: %v", err)
	}
	defer func() {
		if err != nil {
			sdr.Close()
		}
	}()
	if err = binary.Read(sdr.TCPConn, binary.BigEndian, &sdr.Info); err != nil {
		return fmt.Errorf("error getting dongle information: %v", err)
	}
	if !sdr.Info.Valid() {
		return fmt.Errorf("bad magic number: %q", sdr.Info.Magic)
	}
	return nil
}

// DongleInfo is data pulled from the RTLTCPSDR on connection.
type DongleInfo struct {
	Magic     [4]byte
	Tuner     uint32
	GainCount uint32
}

// Valid checks the received magic number matches the expected byte string 'RTL0'.
func (d DongleInfo) Valid() bool {
	return d.Magic == dongleMagic
}

type command struct {
	Command   uint8
	Parameter uint32
}

// Command constants defined in rtl_tcp.c.
const (
	centerFreq = iota + 1
	sampleRate
	tunerGainMode
	tunerGain
	freqCorrection
	_ // tuner IF gain
	_ // test mode
	agcMode
)

func (sdr *RTLTCPSDR) do(cmd uint8, v uint32) error {
	return binary.Write(sdr.TCPConn, binary.BigEndian, command{cmd, v})
}

// SetCenterFreq sets the center frequency in Hz.
func (sdr *RTLTCPSDR) SetCenterFreq(freq uint32) error {
	return sdr.do(centerFreq, freq)
}

// SetSampleRate sets the sample rate in Hz.
func (sdr *RTLTCPSDR) SetSampleRate(rate uint32) error {
	return sdr.do(sampleRate, rate)
}

// SetGain sets tuner gain in tenths of dB. (197 => 19.7dB)
func (sdr *RTLTCPSDR) SetGain(gain uint32) error {
	return sdr.do(tunerGain, gain)
}

// SetGainMode sets the tuner AGC, true to enable.
func (sdr *RTLTCPSDR) SetGainMode(state bool) error {
	if state {
		return sdr.do(tunerGainMode, 0)
	}
	return sdr.do(tunerGainMode, 1)
}

// SetFreqCorrection sets frequency correction in ppm.
func (sdr *RTLTCPSDR) SetFreqCorrection(ppm uint32) error {
	return sdr.do(freqCorrection, ppm)
}

// SetAGCMode sets RTL AGC mode, true for enabled.
func (sdr *RTLTCPSDR) SetAGCMode(state bool) error {
	if state {
		return sdr.do(agcMode, 1)
	}
	return sdr.do(agcMode, 0)
}

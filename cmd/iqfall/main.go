package main

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

var (
	flagCenterHz   float64
	flagRateHz     float64
	flagGain       string
	flagFFTSize    int
	flagFrameRate  int
	flagRangeDB    float64
	flagRows       int
	flagSerial     string
	flagHeight     int
	flagRenderBins int
)

var rootCmd = &cobra.Command{
	Use:   "iqfall",
	Short: "A streaming RTL-SDR waterfall display.",
}

func init() {
	fftCmd := &cobra.Command{
		Use:   "fft [flags] [input.iq8|-]",
		Short: "Stream a live FFT waterfall from an rtl_tcp dongle or an iq8 file",
		Run:   func(cmd *cobra.Command, args []string) { runFFT(cmd, args) },
	}
	f := fftCmd.Flags()
	f.Float64VarP(&flagCenterHz, "center-hz", "c", 0, "Center frequency in Hz")
	f.Float64VarP(&flagRateHz, "sample-rate", "s", 0, "Sample rate in Hz")
	f.StringVarP(&flagGain, "gain", "g", "", `Tuner gain: "auto" or dB`)
	f.IntVarP(&flagFFTSize, "fft-size", "n", 0, "FFT size / waterfall columns")
	f.IntVarP(&flagFrameRate, "fps", "f", 0, "Waterfall updates per second")
	f.Float64VarP(&flagRangeDB, "dynamic-range", "d", 0, "Displayed dynamic range in dB")
	f.IntVarP(&flagRows, "rows", "r", 0, "Waterfall rows to display")
	f.StringVar(&flagSerial, "serial", "0", "Dongle serial number or index")
	f.IntVar(&flagHeight, "height", 650, "Window height in pixels")
	rootCmd.AddCommand(fftCmd)

	renderCmd := &cobra.Command{
		Use:   "render [flags] input.iq8 output.jpg",
		Short: "Render an iq8 capture to a spectrogram image",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := render(args[0], args[1], flagRenderBins, flagRangeDB); err != nil {
				log.Fatal(err)
			}
		},
	}
	renderCmd.Flags().IntVarP(&flagRenderBins, "bins", "b", 2048, "FFT size / image width")
	renderCmd.Flags().Float64VarP(&flagRangeDB, "dynamic-range", "d", 60.0, "Displayed dynamic range in dB")
	rootCmd.AddCommand(renderCmd)
}

func runFFT(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	var src radio.SampleSource
	var err error
	if len(args) > 0 {
		src, err = radio.NewFileSource(args[0], cfg.Band())
	} else {
		src, err = radio.NewSDRWithSerial(context.Background(), flagSerial)
	}
	if err != nil {
		log.Fatal(err)
	}
	rec := newRecordingSource(src)

	fw, err := newFFTWindow(cfg, flagHeight)
	if err != nil {
		log.Fatal(err)
	}
	defer fw.Destroy()

	ctrl, err := waterfall.New(cfg, rec, fw)
	if err != nil {
		log.Fatal(err)
	}
	ctrl.OnError = func(err error) {
		log.Println(err)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// End of a replayed capture; freeze the display.
			log.Println("stream terminated")
			ctrl.Close()
		}
	}
	go func() {
		if err := ctrl.Run(context.Background()); err != nil && err != context.Canceled {
			log.Println("pipeline:", err)
		}
	}()

	fw.loop(ctrl, rec)
	ctrl.Close()
	<-ctrl.Done()
}

func applyFlags(cmd *cobra.Command, cfg *waterfall.Config) {
	f := cmd.Flags()
	if f.Changed("center-hz") {
		cfg.CenterHz = flagCenterHz
	}
	if f.Changed("sample-rate") {
		cfg.SampleRateHz = flagRateHz
	}
	if f.Changed("gain") {
		g, err := radio.ParseGain(flagGain)
		if err != nil {
			log.Println(err, "- keeping", cfg.Gain)
		} else {
			cfg.Gain = g
		}
	}
	if f.Changed("fft-size") {
		cfg.FFTSize = flagFFTSize
	}
	if f.Changed("fps") {
		cfg.FrameRateHz = flagFrameRate
	}
	if f.Changed("dynamic-range") {
		cfg.DynamicRangeDB = flagRangeDB
	}
	if f.Changed("rows") {
		cfg.Rows = flagRows
	}
}

func main() {
	if err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		panic(err)
	}
	defer sdl.Quit()
	rootCmd.Execute()
}

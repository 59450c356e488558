package main

import (
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/chzchzchz/iqfall/dsp"
	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

// render runs an iq8 capture through the spectrum pipeline and writes a
// spectrogram image, one row per block.
func render(infn, outfn string, bins int, rangeDB float64) error {
	inf, err := os.Open(infn)
	if err != nil {
		return err
	}
	defer inf.Close()
	fi, err := inf.Stat()
	if err != nil {
		return err
	}
	lines := int(fi.Size()) / 2 / bins

	if rangeDB < waterfall.MinDynamicRange {
		rangeDB = waterfall.MinDynamicRange
	}
	an := dsp.NewAnalyzer(bins)
	lvl := dsp.NewLevelEstimator(0.99, 0.9, rangeDB)

	r := image.Rectangle{Min: image.Point{0, 0}, Max: image.Point{bins, lines}}
	img := image.NewNRGBA(r)

	iqr := radio.NewIQReader(inf)
	for y := 0; y < lines; y++ {
		block, err := iqr.ReadBlock(bins)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		} else if err != nil {
			return err
		}
		spectrum, err := an.Transform(block)
		if err != nil {
			return err
		}
		floor, ceiling := lvl.Update(spectrum)
		span := ceiling - floor
		if span <= 0 {
			span = 1
		}
		for x, v := range spectrum {
			t := (v - floor) / span
			t *= t
			img.SetNRGBA(x, y, binColor(t))
		}
	}

	outf, err := os.OpenFile(outfn, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer outf.Close()
	return jpeg.Encode(outf, img, nil)
}

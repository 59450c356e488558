package main

import (
	"log"

	"github.com/spf13/viper"

	"github.com/chzchzchz/iqfall/radio"
	"github.com/chzchzchz/iqfall/waterfall"
)

// loadConfig layers ~/.config/iqfall/iqfall.yaml over the built-in
// defaults; command line flags are applied on top by the caller.
func loadConfig() waterfall.Config {
	cfg := waterfall.DefaultConfig()

	v := viper.New()
	v.SetConfigName("iqfall")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.config/iqfall")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Println("config:", err)
		}
		return cfg
	}

	if v.IsSet("center_hz") {
		cfg.CenterHz = v.GetFloat64("center_hz")
	}
	if v.IsSet("sample_rate_hz") {
		cfg.SampleRateHz = v.GetFloat64("sample_rate_hz")
	}
	if v.IsSet("gain") {
		g, err := radio.ParseGain(v.GetString("gain"))
		if err != nil {
			log.Println("config:", err, "- keeping", cfg.Gain)
		} else {
			cfg.Gain = g
		}
	}
	if v.IsSet("fft_size") {
		cfg.FFTSize = v.GetInt("fft_size")
	}
	if v.IsSet("fps") {
		cfg.FrameRateHz = v.GetInt("fps")
	}
	if v.IsSet("dynamic_range_db") {
		cfg.DynamicRangeDB = v.GetFloat64("dynamic_range_db")
	}
	if v.IsSet("rows") {
		cfg.Rows = v.GetInt("rows")
	}
	if v.IsSet("ceiling_quantile") {
		cfg.CeilingQuantile = v.GetFloat64("ceiling_quantile")
	}
	if v.IsSet("ceiling_smoothing") {
		cfg.CeilingSmoothing = v.GetFloat64("ceiling_smoothing")
	}
	return cfg
}

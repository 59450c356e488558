package waterfall

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chzchzchz/iqfall/dsp"
	"github.com/chzchzchz/iqfall/radio"
)

// Display receives the live waterfall matrix after each successful
// pipeline pass. Render runs on the pipeline goroutine; implementations
// must copy what they keep.
type Display interface {
	Render(Frame)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(Frame)

func (f DisplayFunc) Render(fr Frame) { f(fr) }

// Frame is one waterfall update.
type Frame struct {
	Matrix  [][]float64
	Axis    Axis
	Floor   float64
	Ceiling float64
}

// Controller owns the pipeline state and drives one pass per tick: read a
// block, transform, level, push, notify the display. Settings changes and
// shutdown are serviced between ticks, never during one.
type Controller struct {
	src  radio.SampleSource
	disp Display

	an   *dsp.Analyzer
	lvl  *dsp.LevelEstimator
	buf  *Buffer
	axis Axis

	// OnError is called with tick and reconfiguration errors; defaults
	// to log.Printf. Set before Run.
	OnError func(error)

	cfg Config
	mu  sync.Mutex

	applyc    chan Config
	closec    chan struct{}
	donec     chan struct{}
	started   atomic.Bool
	closeOnce sync.Once
	relOnce   sync.Once
}

// New validates cfg, configures the source, and builds the pipeline. The
// controller is idle until Run.
func New(cfg Config, src radio.SampleSource, disp Display) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := src.Configure(cfg.Band(), cfg.Gain); err != nil {
		return nil, fmt.Errorf("configure source: %w", err)
	}
	return &Controller{
		src:    src,
		disp:   disp,
		an:     dsp.NewAnalyzer(cfg.FFTSize),
		lvl:    dsp.NewLevelEstimator(cfg.CeilingQuantile, cfg.CeilingSmoothing, cfg.DynamicRangeDB),
		buf:    NewBuffer(cfg.Rows, cfg.FFTSize, DefaultFloorDB),
		axis:   Axis{cfg.CenterHz, cfg.SampleRateHz, cfg.FFTSize},
		cfg:    cfg,
		applyc: make(chan Config),
		closec: make(chan struct{}),
		donec:  make(chan struct{}),
	}, nil
}

// Run ticks the pipeline at the configured frame rate until Close or ctx
// cancellation, then releases the source. Ticks never overlap; a blocking
// source read stalls the loop rather than racing it.
func (c *Controller) Run(ctx context.Context) error {
	c.started.Store(true)
	defer c.release()
	ticker := time.NewTicker(c.Config().FramePeriod())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closec:
			return nil
		case cfg := <-c.applyc:
			c.apply(cfg, ticker)
		case <-ticker.C:
			if err := c.tick(); err != nil {
				c.errorf(err)
			}
		}
	}
}

// ApplySettings requests a reconfiguration; it is applied in full between
// two ticks. Invalid fields are dropped in favor of the current values.
func (c *Controller) ApplySettings(cfg Config) {
	select {
	case c.applyc <- cfg:
	case <-c.closec:
	case <-c.donec:
	}
}

// Close stops the pipeline and releases the source. Safe to call more
// than once and from any goroutine.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.closec) })
	if !c.started.Load() {
		// Never ran; release here so the source isn't leaked.
		c.release()
	}
}

// Done is closed once the source has been released.
func (c *Controller) Done() <-chan struct{} { return c.donec }

// Config returns a copy of the current settings.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) setConfig(cfg Config) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *Controller) tick() error {
	cfg := c.Config()
	block, err := c.src.ReadBlock(cfg.FFTSize)
	if err != nil {
		return fmt.Errorf("read block: %w", err)
	}
	spectrum, err := c.an.Transform(block)
	if err != nil {
		return err
	}
	floor, ceiling := c.lvl.Update(spectrum)
	if err := c.buf.Push(spectrum, floor, ceiling); err != nil {
		return err
	}
	if c.disp != nil {
		c.disp.Render(Frame{Matrix: c.buf.Matrix(), Axis: c.axis, Floor: floor, Ceiling: ceiling})
	}
	return nil
}

func (c *Controller) apply(next Config, ticker *time.Ticker) {
	prev := c.Config()
	next = next.merged(prev)
	c.setConfig(next)

	// A device failure leaves the pipeline consistent; the new settings
	// still apply to transform, leveling, and axis.
	if err := c.src.Configure(next.Band(), next.Gain); err != nil {
		c.errorf(fmt.Errorf("configure source: %w", err))
	}

	if next.FFTSize != prev.FFTSize {
		c.an = dsp.NewAnalyzer(next.FFTSize)
		c.buf.Resize(next.FFTSize, DefaultFloorDB)
		c.lvl.Reset()
	}
	if next.CeilingQuantile != prev.CeilingQuantile || next.CeilingSmoothing != prev.CeilingSmoothing {
		c.lvl = dsp.NewLevelEstimator(next.CeilingQuantile, next.CeilingSmoothing, next.DynamicRangeDB)
	} else if next.DynamicRangeDB != prev.DynamicRangeDB {
		c.lvl.SetRange(next.DynamicRangeDB)
	}

	c.axis = Axis{next.CenterHz, next.SampleRateHz, next.FFTSize}

	if next.FrameRateHz != prev.FrameRateHz {
		ticker.Reset(next.FramePeriod())
	}
	if next.Band() != prev.Band() {
		mhz := c.axis.Band().ToMHz()
		log.Printf("tuned [%0.5g,%0.5g]MHz", mhz.BeginMHz(), mhz.EndMHz())
	}
}

func (c *Controller) release() {
	c.relOnce.Do(func() {
		if err := c.src.Close(); err != nil {
			c.errorf(fmt.Errorf("close source: %w", err))
		}
		close(c.donec)
	})
}

func (c *Controller) errorf(err error) {
	if c.OnError != nil {
		c.OnError(err)
		return
	}
	log.Println(err)
}

package saturator

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-saturator/dsp/buffer"
	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/mix"
	"github.com/cwbudde/algo-saturator/dsp/oversample"
	"github.com/cwbudde/algo-saturator/dsp/params"
	"github.com/cwbudde/algo-saturator/dsp/saturate"
	"github.com/cwbudde/algo-saturator/dsp/smooth"
)

var (
	// ErrInvalidConfig reports an option or Prepare argument out of range.
	ErrInvalidConfig = errors.New("saturator: invalid configuration")
	// ErrNotPrepared is the panic value of processing without Prepare.
	ErrNotPrepared = errors.New("saturator: processor not prepared")
	// ErrChannelMismatch is the panic value of Process with a block whose
	// channel count differs from the prepared one.
	ErrChannelMismatch = errors.New("saturator: channel count mismatch")
)

// State is the processor lifecycle stage.
type State int

const (
	StateUninitialized State = iota
	StatePrepared
	StateProcessing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePrepared:
		return "prepared"
	case StateProcessing:
		return "processing"
	default:
		return "uninitialized"
	}
}

// Processor is the oversampled saturation engine. Parameter writes go
// through the shared params.Store from any goroutine; Process and
// ProcessFloat32 must be called from a single goroutine.
type Processor struct {
	store  *params.Store
	cfg    config
	design *oversample.Stage

	state    atomic.Int32
	bypassed atomic.Bool
	ctx      *prepared
}

// prepared holds everything the audio path touches. It is built by Prepare
// and dropped by Release.
type prepared struct {
	pc    core.ProcessorConfig
	stage *oversample.Stage
	dry   *buffer.Block
	work  *buffer.Block
	lanes [][]float64

	smoothers [params.Count]smooth.Linear
	last      [params.Count]float64
	tone      toneFilter

	driveDB, driveGain   float64
	outputDB, outputGain float64
}

// New creates a processor reading from store. A nil store gets a fresh
// store holding the defaults.
func New(store *params.Store, opts ...Option) (*Processor, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if store == nil {
		store = params.NewStore()
	}

	stage, err := oversample.New(cfg.factor, oversample.WithQuality(cfg.quality))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Processor{store: store, cfg: cfg, design: stage}, nil
}

// Prepare allocates the audio path for blocks of up to maxBlockSize frames
// of numChannels channels at sampleRate. It may be called again to change
// the format; state from a previous Prepare is discarded.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, numChannels int) error {
	pc := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize, Channels: numChannels}
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	stage, err := oversample.New(p.cfg.factor, oversample.WithQuality(p.cfg.quality))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := stage.Initialize(numChannels, maxBlockSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	overRate := sampleRate * float64(p.cfg.factor)

	ctx := &prepared{
		pc:    pc,
		stage: stage,
		dry:   buffer.NewBlock(numChannels, maxBlockSize),
		work:  buffer.NewBlock(numChannels, maxBlockSize),
		lanes: make([][]float64, numChannels),
		tone:  newToneFilter(p.cfg.tone, overRate, numChannels, int(math.Round(p.cfg.rampSeconds*overRate))),
	}

	snap := p.store.Snapshot()

	for id := range params.Count {
		sm := &ctx.smoothers[id]
		if err := sm.Prepare(overRate, p.cfg.rampSeconds); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		v := snap.Values[id]
		sm.Reset(v)
		ctx.last[id] = v
	}

	ctx.tone.reset(snap.Value(params.Tone))
	ctx.driveDB = snap.Value(params.Drive)
	ctx.driveGain = dbToGain(ctx.driveDB)
	ctx.outputDB = snap.Value(params.Output)
	ctx.outputGain = dbToGain(ctx.outputDB)

	p.ctx = ctx
	p.state.Store(int32(StatePrepared))
	p.bypassed.Store(snap.Bypass)

	return nil
}

// Release drops every prepared buffer. The processor must be prepared
// again before further processing.
func (p *Processor) Release() {
	p.ctx = nil
	p.state.Store(int32(StateUninitialized))
}

// Reset clears filter history and snaps every smoother to the store's
// current values without reallocating.
func (p *Processor) Reset() {
	ctx := p.mustPrepared()
	snap := p.store.Snapshot()

	ctx.stage.Reset()

	for id := range params.Count {
		ctx.smoothers[id].Reset(snap.Values[id])
		ctx.last[id] = snap.Values[id]
	}

	ctx.tone.reset(snap.Value(params.Tone))
}

// Process renders block in place. Blocks longer than the prepared maximum
// are processed in chunks.
//
// Process panics with ErrNotPrepared before Prepare and with
// ErrChannelMismatch when block has a different channel count.
func (p *Processor) Process(block *buffer.Block) {
	ctx := p.mustPrepared()

	if block.NumChannels() != ctx.pc.Channels {
		panic(fmt.Errorf("%w: got %d, prepared for %d", ErrChannelMismatch, block.NumChannels(), ctx.pc.Channels))
	}

	snap, ok := p.begin(ctx)
	if !ok {
		return
	}

	n := block.Len()
	if n <= ctx.pc.BlockSize {
		ctx.render(block, snap.Pre)
		p.state.Store(int32(StatePrepared))

		return
	}

	for off := 0; off < n; off += ctx.pc.BlockSize {
		m := min(ctx.pc.BlockSize, n-off)
		ctx.work.SetLength(m)

		for ch := range ctx.pc.Channels {
			copy(ctx.work.Channel(ch), block.Channel(ch)[off:off+m])
		}

		ctx.render(ctx.work, snap.Pre)

		for ch := range ctx.pc.Channels {
			copy(block.Channel(ch)[off:off+m], ctx.work.Channel(ch))
		}
	}

	p.state.Store(int32(StatePrepared))
}

// ProcessFloat32 renders numSamples frames of channel-major float32 audio in
// place. numSamples is clamped to the shortest channel. Channels beyond the
// prepared count are left untouched; prepared channels missing from the
// input are processed as silence.
//
// ProcessFloat32 panics with ErrNotPrepared before Prepare.
func (p *Processor) ProcessFloat32(channels [][]float32, numSamples int) {
	ctx := p.mustPrepared()

	active := min(len(channels), ctx.pc.Channels)
	for ch := range active {
		numSamples = min(numSamples, len(channels[ch]))
	}

	if numSamples <= 0 || active == 0 {
		return
	}

	snap, ok := p.begin(ctx)
	if !ok {
		return
	}

	for off := 0; off < numSamples; off += ctx.pc.BlockSize {
		m := min(ctx.pc.BlockSize, numSamples-off)
		ctx.work.SetLength(m)

		for ch := range ctx.pc.Channels {
			dst := ctx.work.Channel(ch)
			if ch < active {
				core.Widen(dst, channels[ch][off:off+m])
			} else {
				core.Zero(dst)
			}
		}

		ctx.render(ctx.work, snap.Pre)

		for ch := range active {
			core.Narrow(channels[ch][off:off+m], ctx.work.Channel(ch))
		}
	}

	p.state.Store(int32(StatePrepared))
}

// begin snapshots the store for one call and retargets the smoothers. It
// reports false when the call is bypassed, in which case nothing advances.
func (p *Processor) begin(ctx *prepared) (params.Snapshot, bool) {
	snap := p.store.Snapshot()
	p.bypassed.Store(snap.Bypass)

	if snap.Bypass {
		return snap, false
	}

	p.state.Store(int32(StateProcessing))

	for id := range params.Count {
		if v := snap.Values[id]; v != ctx.last[id] {
			ctx.smoothers[id].SetTarget(v)
			ctx.last[id] = v
		}
	}

	return snap, true
}

func (p *Processor) mustPrepared() *prepared {
	if p.ctx == nil {
		panic(ErrNotPrepared)
	}

	return p.ctx
}

// render runs the oversampled chain over block, which holds at most
// BlockSize frames and the prepared channel count. The tone filter runs
// after the shaper when post is set and before it otherwise.
func (c *prepared) render(block *buffer.Block, post bool) {
	c.dry.CopyFrom(block)

	over := c.stage.Upsample(block)
	for ch := range c.lanes {
		c.lanes[ch] = over.Channel(ch)
	}

	drive := &c.smoothers[params.Drive]
	tone := &c.smoothers[params.Tone]
	wet := &c.smoothers[params.Mix]
	output := &c.smoothers[params.Output]

	for i := range over.Len() {
		if db := drive.Next(); db != c.driveDB {
			c.driveDB = db
			c.driveGain = dbToGain(db)
		}

		if db := output.Next(); db != c.outputDB {
			c.outputDB = db
			c.outputGain = dbToGain(db)
		}

		wet.Next()
		c.tone.advance(tone.Next())

		d, g := c.driveGain, c.outputGain

		for ch, lane := range c.lanes {
			x := lane[i]

			if !post {
				x = c.tone.process(ch, x)
			}

			x = saturate.Saturate(x, d)

			if post {
				x = c.tone.process(ch, x)
			}

			lane[i] = x * g
		}
	}

	c.stage.Downsample(block)
	mix.DryWet(block, c.dry, wet.Current()*0.01)
}

// LatencySamples returns the delay of the processed path in base-rate
// samples. The dry path is not delayed.
func (p *Processor) LatencySamples() int { return p.design.LatencySamples() }

// State returns the lifecycle stage. It is safe to poll from any goroutine.
func (p *Processor) State() State { return State(p.state.Load()) }

// Store returns the parameter store the processor reads.
func (p *Processor) Store() *params.Store { return p.store }

// Bypassed reports the bypass state acted on by the most recent call. It is
// safe to poll from any goroutine.
func (p *Processor) Bypassed() bool { return p.bypassed.Load() }

// SampleRate returns the prepared base sample rate, or 0.
func (p *Processor) SampleRate() float64 {
	if p.ctx == nil {
		return 0
	}

	return p.ctx.pc.SampleRate
}

// MaxBlockSize returns the prepared maximum block size, or 0.
func (p *Processor) MaxBlockSize() int {
	if p.ctx == nil {
		return 0
	}

	return p.ctx.pc.BlockSize
}

// Channels returns the prepared channel count, or 0.
func (p *Processor) Channels() int {
	if p.ctx == nil {
		return 0
	}

	return p.ctx.pc.Channels
}

// Smoothed returns the current smoothed value of id. Before Prepare it
// returns the stored value.
func (p *Processor) Smoothed(id params.ID) float64 {
	if !id.Valid() {
		return 0
	}

	if p.ctx == nil {
		return p.store.Load(id)
	}

	return p.ctx.smoothers[id].Current()
}

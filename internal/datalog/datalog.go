// Package datalog records one entry per simulated step for post-run reduction.
package datalog

import (
	"time"

	"github.com/san-kum/regensim/internal/braking"
	"github.com/san-kum/regensim/internal/damper"
	"github.com/san-kum/regensim/internal/mrfluid"
	"github.com/san-kum/regensim/internal/ringbuf"
	"github.com/san-kum/regensim/internal/vehicle"
)

// Entry is immutable once appended.
type Entry struct {
	Step             int
	Timestamp        time.Time
	Elapsed          float64
	State            vehicle.State
	Dampers          [vehicle.NumCorners]damper.Output
	BrakingIntensity float64
	Braking          braking.Decision
	Fluid            mrfluid.Output
}

// RecoveredPower is the combined damper and fluid-path recovery for the step in W.
func (e Entry) RecoveredPower() float64 {
	p := e.Fluid.TotalEnergyRecovery
	for _, d := range e.Dampers {
		p += d.GeneratedPower
	}
	return p
}

// Log is an append-only, capacity-bounded sequence of entries. When full, the oldest entry
// is dropped and counted.
type Log struct {
	buf *ringbuf.Buffer[Entry]
}

func New(capacity int) *Log {
	return &Log{buf: ringbuf.New[Entry](capacity)}
}

func (l *Log) Append(e Entry)   { l.buf.Push(e) }
func (l *Log) Len() int         { return l.buf.Len() }
func (l *Log) Cap() int         { return l.buf.Cap() }
func (l *Log) Dropped() int     { return l.buf.Dropped() }
func (l *Log) Entries() []Entry { return l.buf.Slice() }
func (l *Log) Reset()           { l.buf.Reset() }

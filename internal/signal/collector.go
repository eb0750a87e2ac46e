package signal

import (
	"fmt"

	"mender/pkg/logx"
)

// Collector reads a Source and degrades every failure (error or panic) to an
// empty value. Generation and monitoring must never fail because a signal
// producer is unavailable.
type Collector struct {
	src Source
	log logx.Logger
}

func NewCollector(src Source, log logx.Logger) *Collector {
	return &Collector{src: src, log: log}
}

// Collect reads all four signals. A nil source yields an empty snapshot.
func (c *Collector) Collect() Snapshot {
	var snap Snapshot
	if c == nil || c.src == nil {
		return snap
	}

	c.read("calibration_warnings", func() error {
		ws, err := c.src.CalibrationWarnings()
		if err != nil {
			return err
		}
		snap.CalibrationWarnings = ws
		return nil
	})
	c.read("classification_accuracy", func() error {
		acc, err := c.src.ClassificationAccuracy()
		if err != nil {
			return err
		}
		snap.Accuracy = acc
		return nil
	})
	c.read("meta_insights", func() error {
		mi, err := c.src.MetaInsights()
		if err != nil {
			return err
		}
		snap.Insights = mi
		return nil
	})
	c.read("evolution_score", func() error {
		ev, err := c.src.EvolutionScore()
		if err != nil {
			return err
		}
		snap.Evolution = ev
		return nil
	})

	return snap
}

// read runs one signal fetch panic-safely and logs failures at debug level;
// a flaky producer is expected operating mode, not an incident.
func (c *Collector) read(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Debug("signal source panicked; using empty value",
				logx.String("signal", name), logx.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		c.log.Debug("signal source unavailable; using empty value",
			logx.String("signal", name), logx.Err(fmt.Errorf("%s: %w", name, err)))
	}
}

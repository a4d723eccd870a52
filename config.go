package qmeasure

import "runtime"

// Config tunes how an evaluation runs. The zero worker count means
// one goroutine per CPU.
type Config struct {
	Workers int
	Metrics *Metrics
}

func NewConfig() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
	}
}

func (c *Config) workerCount() int {
	if c == nil || c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

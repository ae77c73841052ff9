// Package prof collects Go runtime profiles for one CLI invocation.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options names the output files; empty paths disable a profile.
type Options struct {
	CPU   string
	Mem   string
	Trace string
}

// Enabled reports whether any profile is requested.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Mem != "" || o.Trace != ""
}

// Profiler owns the profiles started by Start.
type Profiler struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
	stopped   bool
}

// Start enables the CPU profile and the runtime trace. The heap profile is
// written by Stop, after the work has run.
func Start(opts Options) (*Profiler, error) {
	p := &Profiler{opts: opts}
	if opts.CPU != "" {
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		p.cpuFile = f
	}
	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			p.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			// cpu-профиль уже запущен
			p.stopCPU()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		p.traceFile = f
	}
	return p, nil
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	return err
}

func (p *Profiler) stopTrace() error {
	if p.traceFile == nil {
		return nil
	}
	trace.Stop()
	err := p.traceFile.Close()
	p.traceFile = nil
	return err
}

func (p *Profiler) writeMem() error {
	if p.opts.Mem == "" {
		return nil
	}
	f, err := os.Create(p.opts.Mem)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	runtime.GC()
	werr := pprof.WriteHeapProfile(f)
	return errors.Join(werr, f.Close())
}

// Stop finishes every profile. It is safe to call on nil and more than once.
func (p *Profiler) Stop() error {
	if p == nil || p.stopped {
		return nil
	}
	p.stopped = true
	return errors.Join(p.stopTrace(), p.stopCPU(), p.writeMem())
}

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/jcorbin/lgo/internal/logio"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dump     bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable a live-object limit per heap arena")
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "widen the mark column of trace log lines")
	flag.BoolVar(&dump, "dump", false, "print a heap/frame dump after execution")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	opts := []InterpreterOption{
		WithLogf(log.Leveledf("TRACE")),
		WithMemLimit(memLimit),
		WithOutput(os.Stdout),
	}

	args := flag.Args()
	if len(args) == 0 {
		opts = append(opts, WithInput(os.Stdin))
	} else {
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				log.ErrorIf(err)
				continue
			}
			opts = append(opts, WithInput(f))
		}
	}

	it := New(opts...)
	defer it.Close()

	if dump {
		defer func() {
			conses, irefs, jrefs := it.heap.LiveCounts()
			log.Leveledf("DUMP")("conses=%d irefs=%d jrefs=%d frames=%d", conses, irefs, jrefs, len(it.frames))
		}()
	}

	if trace {
		it.markWidth = 8
	}

	defer log.Unwrap()

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := it.Run(ctx)
	var ex exitSignal
	if errors.As(err, &ex) {
		os.Exit(ex.code)
	}
	log.ErrorIf(err)
}

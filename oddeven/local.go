package oddeven

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
	"github.com/edmelnikov/Distributed-Computing-course/trace"
)

/*
	RunLocal sorts global with cfg.Participants ranks running as goroutines of
	this process and returns the root's result. When one rank fails, every
	endpoint is closed so that the others return instead of blocking forever.
*/
func RunLocal(cfg Config, global []int32, tr *trace.CSVStructLogger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	world := mpi.NewLocalWorld(cfg.Participants)
	results := make([]Result, len(world))
	g, ctx := errgroup.WithContext(context.Background())
	go func() {
		<-ctx.Done()
		for _, ep := range world {
			ep.Close()
		}
	}()
	for rank, ep := range world {
		g.Go(func() error {
			s := NewSorter(ep, cfg)
			var input []int32
			if rank == mpi.Root {
				s.Trace = tr
				input = global
			}
			res, err := s.Run(input)
			results[rank] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return results[mpi.Root], nil
}

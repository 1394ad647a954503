package oddeven

import (
	"io"
	"log"
	"os"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/edmelnikov/Distributed-Computing-course/mpi"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// onEveryRank runs fn once per rank of a local world of size p and closes the
// world when any rank fails.
func onEveryRank(p int, fn func(ep *mpi.Endpoint) error) error {
	world := mpi.NewLocalWorld(p)
	var g errgroup.Group
	for _, ep := range world {
		g.Go(func() error {
			err := fn(ep)
			if err != nil {
				for _, other := range world {
					other.Close()
				}
			}
			return err
		})
	}
	return g.Wait()
}

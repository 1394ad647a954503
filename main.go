package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"slices"

	"github.com/edmelnikov/Distributed-Computing-course/config"
	"github.com/edmelnikov/Distributed-Computing-course/mpi"
	"github.com/edmelnikov/Distributed-Computing-course/oddeven"
	"github.com/edmelnikov/Distributed-Computing-course/trace"
	"github.com/edmelnikov/Distributed-Computing-course/utils"
)

var configFile = flag.String("config", "", "read the run configuration from a TOML `file`")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var size = flag.Int("size", 0, "length of the sequence to sort")
var nrprocs = flag.Int("hosts", 0, "number of participants.")
var frac = flag.Float64("frac", 0, "fraction of a partition sent to a neighbour.")
var local = flag.Bool("local", true, "run every participant in this process.")
var manager = flag.Bool("manager", true, "choose if instance is manager (rank 0).")
var port = flag.Int("port", 0, "port the manager listens on.")
var addr = flag.String("addr", "", "address of the manager, for hosts.")
var input = flag.String("input", "", "input sequence: descending, ascending or random.")
var seed = flag.Int64("seed", 0, "seed of the random input.")
var roundTrace = flag.String("trace", "", "write per-round swap totals to a CSV `file`")
var msgTrace = flag.String("msgtrace", "", "write every message sent by this process to a CSV `file`")
var quiet = flag.Bool("quiet", false, "discard progress logging.")

func main() {
	flag.Parse()
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if *quiet {
		log.SetOutput(io.Discard)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	res, root, err := run(cfg)
	if err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
	if root {
		if !slices.IsSorted(res.Sorted) {
			log.Println("result is not sorted")
		}
		fmt.Println()
		fmt.Println("time:", res.Elapsed.Seconds())
		fmt.Println("rounds:", res.Rounds)
	}
}

// applyFlags overrides the configuration with the flags given on the command line.
// Naming a manager role or address without -local means a TCP run.
func applyFlags(cfg *config.Config) {
	localSet, remote := false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "local":
			localSet = true
		case "manager", "addr", "port":
			remote = true
		}
	})
	if remote && !localSet {
		cfg.Network.Local = false
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			cfg.Sort.Length = *size
		case "hosts":
			cfg.Sort.Participants = *nrprocs
		case "frac":
			cfg.Sort.ChunkFraction = *frac
		case "local":
			cfg.Network.Local = *local
		case "manager":
			cfg.Network.Manager = *manager
		case "port":
			cfg.Network.Port = *port
		case "addr":
			cfg.Network.Address = *addr
		case "input":
			cfg.Input.Kind = *input
		case "seed":
			cfg.Input.Seed = *seed
		case "trace":
			cfg.Trace.Rounds = *roundTrace
		case "msgtrace":
			cfg.Trace.Messages = *msgTrace
		}
	})
}

// run returns the result and whether this process holds rank 0.
func run(cfg config.Config) (oddeven.Result, bool, error) {
	root := cfg.Network.Local || cfg.Network.Manager
	var global []int32
	if root {
		global = utils.Input(cfg.Input.Kind, cfg.Sort.Length, cfg.Input.Seed)
	}

	var rounds *trace.CSVStructLogger
	if root && cfg.Trace.Rounds != "" {
		f, err := os.Create(cfg.Trace.Rounds)
		if err != nil {
			return oddeven.Result{}, root, err
		}
		defer f.Close()
		rounds = trace.NewCSVStructLogger(f)
		defer rounds.Close()
	}

	if cfg.Network.Local {
		res, err := oddeven.RunLocal(cfg.Sort, global, rounds)
		return res, root, err
	}

	var ep *mpi.Endpoint
	var err error
	if root {
		log.Println("manager waiting for", cfg.Sort.Participants-1, "hosts on port", cfg.Network.Port)
		ep, err = mpi.Listen(fmt.Sprint(":", cfg.Network.Port), cfg.Sort.Participants)
	} else {
		ep, err = mpi.Join(cfg.Network.Address, cfg.Network.JoinTimeout.Duration)
	}
	if err != nil {
		return oddeven.Result{}, root, err
	}
	defer ep.Close()
	log.Println("joined as rank", ep.Rank(), "of", ep.Size())

	if cfg.Trace.Messages != "" {
		f, err := os.Create(cfg.Trace.Messages)
		if err != nil {
			return oddeven.Result{}, root, err
		}
		defer f.Close()
		messages := trace.NewCSVStructLogger(f)
		defer messages.Close()
		ep.SetLogger(messages)
	}

	s := oddeven.NewSorter(ep, cfg.Sort)
	s.Trace = rounds
	res, err := s.Run(global)
	return res, root, err
}

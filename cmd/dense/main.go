// Package main provides the dense CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/dense/backend/cpu"
	"github.com/born-ml/dense/backend/naive"
	"github.com/born-ml/dense/dataset"
	"github.com/born-ml/dense/matrix"
	"github.com/born-ml/dense/nn"
	"github.com/born-ml/dense/optim"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("dense %s\n", version)
			return
		case "demo":
			if err := demo(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "demo: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("dense - dense feed-forward networks for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Train a small classifier on synthetic two-class data")
	fmt.Println("")
	fmt.Println("See examples/mnist for training on MNIST.")
}

type demoConfig struct {
	steps     int
	batchSize int
	hidden    int
	lr        float64
	seed      int64
	backend   string
	every     int
	save      string
}

func demo(args []string) error {
	var cfg demoConfig
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.IntVar(&cfg.steps, "steps", 500, "number of training steps")
	fs.IntVar(&cfg.batchSize, "batch", 16, "batch size")
	fs.IntVar(&cfg.hidden, "hidden", 3, "hidden layer width")
	fs.Float64Var(&cfg.lr, "lr", 1e-2, "Adam learning rate")
	fs.Int64Var(&cfg.seed, "seed", 1, "random seed")
	fs.StringVar(&cfg.backend, "backend", "cpu", "matrix backend: cpu or naive")
	fs.IntVar(&cfg.every, "every", 50, "report interval in steps")
	fs.StringVar(&cfg.save, "save", "", "write a checkpoint of the trained network to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if cfg.steps <= 0 || cfg.every <= 0 {
		return errors.New("steps and every must be positive")
	}

	var backend matrix.Backend
	switch cfg.backend {
	case "cpu":
		backend = cpu.New()
	case "naive":
		backend = naive.New()
	default:
		return fmt.Errorf("unknown backend %q", cfg.backend)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	init := &nn.RandomInitializer{Dispersion: 0.5, Rand: rng}
	net, err := nn.NewNetwork(cfg.batchSize,
		nn.NewLinearWithInit(2, cfg.hidden, init, backend),
		nn.NewSigmoid(cfg.hidden),
		nn.NewLinearWithInit(cfg.hidden, 2, init, backend),
		nn.NewSoftmax(2),
	)
	if err != nil {
		return err
	}
	net.SetOptimizer(optim.NewAdam(optim.AdamConfig{LR: float32(cfg.lr)}))

	train, test := dataset.Split(dataset.TwoClass(2000, 0.05, rng), 0.2)
	batcher, err := dataset.NewBatcher(train, cfg.batchSize, backend)
	if err != nil {
		return err
	}
	batcher.Shuffle(rng)

	fmt.Printf("Network: 2 -> %d -> 2, %d parameters, backend %s\n\n",
		cfg.hidden, net.TotalParamCount(), backend.Name())

	window := make([]float64, 0, cfg.every)
	for step := 1; step <= cfg.steps; step++ {
		batch, err := batcher.Next()
		if err != nil {
			return err
		}
		loss, err := net.Train(batch.Input, batch.Target)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		if err := net.Optimize(); err != nil {
			return err
		}

		window = append(window, loss)
		if step%cfg.every == 0 {
			fmt.Printf("step %5d  loss %.4f\n", step, floats.Sum(window)/float64(len(window)))
			window = window[:0]
		}
	}

	acc, err := evaluate(net, test, backend)
	if err != nil {
		return err
	}
	fmt.Printf("\nTest accuracy: %.2f%% (%d samples)\n", 100*acc, len(test))

	if cfg.save != "" {
		if err := nn.Save(net, cfg.save, true); err != nil {
			return err
		}
		fmt.Printf("Checkpoint written to %s\n", cfg.save)
	}
	return nil
}

// evaluate returns the accuracy over examples, one batch at a time.
func evaluate(net *nn.Network, examples []dataset.Example, backend matrix.Backend) (float64, error) {
	bs := net.BatchSize()
	var correct float64
	n := 0
	for lo := 0; lo+bs <= len(examples); lo += bs {
		batch, err := dataset.Batch(examples[lo:lo+bs], backend)
		if err != nil {
			return 0, err
		}
		output, _, err := net.Test(batch.Input, batch.Target)
		if err != nil {
			return 0, err
		}
		acc, err := dataset.Accuracy(output, batch.Target)
		if err != nil {
			return 0, err
		}
		correct += acc * float64(bs)
		n += bs
	}
	if n == 0 {
		return 0, errors.New("fewer test examples than one batch")
	}
	return correct / float64(n), nil
}

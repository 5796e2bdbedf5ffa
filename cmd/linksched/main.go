package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkarpov/linksched/simulator"
)

func main() {
	// Parse command line flags
	discipline := flag.String("discipline", "fcfs", "Scheduling discipline: fcfs or wfq")
	seed := flag.Int64("seed", 1, "Random seed (0 = time-based)")
	outputDir := flag.String("output-dir", ".", "Directory for the report file")
	verbose := flag.Bool("verbose", false, "Enable verbose logging from simulator")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-discipline fcfs|wfq] [-seed N] [-output-dir DIR] <input_file>\n", os.Args[0])
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	disc, err := simulator.ParseDiscipline(*discipline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	config, err := simulator.LoadConfigFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", inputPath, err)
		os.Exit(1)
	}
	config.Discipline = disc
	if *seed != 0 {
		config.RandomSeed = *seed
	} else {
		config.RandomSeed = time.Now().UnixNano()
		fmt.Fprintf(os.Stderr, "Using time-based seed: %d\n", config.RandomSeed)
	}

	sim, err := simulator.NewSimulator(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating simulator: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		sim.LogEvent = func(msg string) {
			fmt.Fprintf(os.Stderr, "[SIM] %s\n", msg)
		}
	}

	sim.Run()
	results := sim.Results()

	outName := fmt.Sprintf("%s_output_%s", disc.String(), filepath.Base(inputPath))
	outPath := filepath.Join(*outputDir, outName)

	outFile, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not create output file %s: %v\n", outPath, err)
		os.Exit(1)
	}
	if err := results.WriteReport(outFile); err != nil {
		outFile.Close()
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	if err := outFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing output file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n--- %s Results for %s ---\n", disc.Label(), inputPath)
	if err := results.WriteReport(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nFull results written to %s\n", outPath)
}

package main

import (
	"testing"
)

func TestBenchCommand(t *testing.T) {
	// Reset flags
	quiet = false
	verbose = false
	jsonOut = false
	benchIterations = 2000
	benchSize = 512

	output, err := captureOutput(t, runBench)
	if err != nil {
		t.Fatalf("runBench() error = %v", err)
	}

	assertContains(t, output,
		"Ran 2000 allocate/free cycles of 512 B",
		"cycles/sec",
		"ns/cycle",
	)
}

func TestBenchCommand_JSON(t *testing.T) {
	quiet = false
	verbose = false
	jsonOut = true
	benchIterations = 100
	benchSize = 256

	output, err := captureOutput(t, runBench)
	if err != nil {
		t.Fatalf("runBench() error = %v", err)
	}

	assertJSON(t, output)
	assertContains(t, output, "cycles_per_sec", "ns_per_cycle")
}

func TestBenchCommand_RejectsBadFlags(t *testing.T) {
	benchIterations = 0
	benchSize = 512
	if err := runBench(); err == nil {
		t.Fatal("expected an error for --iterations 0")
	}

	benchIterations = 10
	benchSize = 0
	if err := runBench(); err == nil {
		t.Fatal("expected an error for --size 0")
	}
}

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunAll(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := stdout.String()

	for _, want := range []string{"SIMD:", "fast", "balanced", "best", "Nyquist [dB]", "20000 Hz [dB]", "28000 Hz [dB]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	// Header, rule and twelve configurations.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if got := len(lines) - 2; got != 2+12 {
		t.Fatalf("got %d table lines, want 14:\n%s", got, out)
	}
}

func TestRunFiltered(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-factor", "8", "-quality", "best", "-rate", "44100"}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	row := strings.Fields(lines[len(lines)-1])

	if row[0] != "best" || row[1] != "8" || row[2] != "64" || row[3] != "64" {
		t.Fatalf("row = %v, want best 8 64 64", row)
	}

	if row[4] != "1.451" {
		t.Fatalf("latency ms = %s, want 1.451", row[4])
	}
}

func TestRunErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-factor", "3"},
		{"-quality", "ultra"},
		{"-rate", "0"},
	} {
		var stdout, stderr bytes.Buffer
		if err := run(args, &stdout, &stderr); err == nil {
			t.Fatalf("run(%v) succeeded, want error", args)
		}
	}
}

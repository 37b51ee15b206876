package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
)

// captureOutput runs fn with stdout redirected into a pipe and returns
// whatever it printed alongside fn's error. A goroutine drains the pipe while
// fn runs so a long report cannot fill the pipe buffer and block the command.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	orig := os.Stdout
	os.Stdout = w
	defer func() {
		os.Stdout = orig
		r.Close()
	}()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fnErr := fn()
	w.Close()
	return <-done, fnErr
}

// assertJSON fails the test when output is not one valid JSON document.
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Errorf("output is not valid JSON: %v\n%s", err, output)
	}
}

// assertContains fails the test for every expected substring missing from
// output.
func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, s := range want {
		if !strings.Contains(output, s) {
			t.Errorf("output missing %q\n%s", s, output)
		}
	}
}

// assertNotContains fails the test for every substring that must not appear
// in output.
func assertNotContains(t *testing.T, output string, unwanted ...string) {
	t.Helper()
	for _, s := range unwanted {
		if strings.Contains(output, s) {
			t.Errorf("output must not contain %q\n%s", s, output)
		}
	}
}

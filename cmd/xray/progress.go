package main

import (
	"time"

	"github.com/schollz/progressbar/v3"
)

// animateSpinner advances an indeterminate bar on a fixed tick until the
// returned stop function is called. xray's indexer has no progress
// callback, so build only gets a spinner rather than a phase-aware bar.
func animateSpinner(bar *progressbar.ProgressBar) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()
	return func() { close(done) }
}

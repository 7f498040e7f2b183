package cli

import "testing"

func TestSpinnerStartStop(t *testing.T) {
	sp := newSpinner("working")
	sp.Start()
	sp.Stop()
	sp.Stop() // must be safe to call again
}

func TestSpinnerStopWithOutcome(t *testing.T) {
	sp := newSpinner("rendering")
	sp.Start()
	sp.StopWithSuccess("done")

	sp = newSpinner("rendering")
	sp.Start()
	sp.StopWithError("failed")
}

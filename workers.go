package markup2html

import "runtime"

// Worker sizing bounds for batch conversion.
const (
	// MinWorkers ensures at least one conversion runs.
	MinWorkers = 1

	// MaxWorkers caps concurrent renderer processes.
	MaxWorkers = 16
)

// ResolveWorkers determines the number of concurrent conversions.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs in
// containers). Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

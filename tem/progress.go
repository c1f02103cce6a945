package tem

// ProgressFunc receives advisory progress from long grid traversals. It
// must not touch the grids being built.
type ProgressFunc func(stage string, done, total int)

// Reporter throttles a ProgressFunc to one call every n steps.
type Reporter struct {
	fn          ProgressFunc
	stage       string
	done, total int
	every       int
}

// NewReporter returns a reporter calling fn every n steps (n<1 means every
// step) and on completion. A nil fn yields a no-op reporter.
func NewReporter(fn ProgressFunc, stage string, total, n int) *Reporter {
	if n < 1 {
		n = 1
	}
	return &Reporter{fn: fn, stage: stage, total: total, every: n}
}

// Step records one processed item.
func (r *Reporter) Step() {
	r.done++
	if r.fn != nil && (r.done%r.every == 0 || r.done == r.total) {
		r.fn(r.stage, r.done, r.total)
	}
}

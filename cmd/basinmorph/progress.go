package main

import (
	"fmt"

	"github.com/gosuri/uiprogress"
)

// progress one bar per pipeline stage
type progress struct {
	bars map[string]*uiprogress.Bar
}

func newProgress() *progress {
	uiprogress.Start()
	return &progress{bars: make(map[string]*uiprogress.Bar)}
}

func (p *progress) update(stage string, done, total int) {
	bar, ok := p.bars[stage]
	if !ok {
		bar = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-11s", stage)
		})
		p.bars[stage] = bar
	}
	_ = bar.Set(done)
}

func (p *progress) stop() { uiprogress.Stop() }

package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"thinfilm/types"
)

// Options 扫描选项
type Options struct {
	Workers int           // 并发上限
	OnDone  func(Outcome) // 每个波长完成时回调（按完成顺序，在调用方 goroutine 中执行）
}

// Run 并行计算所有 Light，结果按输入顺序返回
//
// 单个波长的失败记录在对应槽位，不影响其它波长；
// ctx 取消后未开始的任务以 ctx.Err() 占位，Run 返回 ctx.Err()。
func Run(ctx context.Context, lights []types.Light, task Task, opts Options) ([]Outcome, error) {
	if task == nil {
		return nil, errors.New("sweep: nil task")
	}
	outcomes := make([]Outcome, len(lights))
	if len(lights) == 0 {
		return outcomes, nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = types.DefaultWorkers
	}
	if workers > len(lights) {
		workers = len(lights)
	}

	pool := NewPool(task, workers, len(lights))
	pool.Start(ctx)
	for i, l := range lights {
		pool.Submit(i, l)
	}
	go pool.Stop()

	// 按 TaskID 重排，与完成顺序无关
	for out := range pool.Results() {
		outcomes[out.Index] = out
		if opts.OnDone != nil {
			opts.OnDone(out)
		}
	}
	return outcomes, ctx.Err()
}

// Report 扫描汇总
type Report struct {
	Total     int
	Succeeded int
	Failures  []Outcome
	Elapsed   time.Duration
}

// Summarize 统计成功与失败
func Summarize(outcomes []Outcome, elapsed time.Duration) Report {
	r := Report{Total: len(outcomes), Elapsed: elapsed}
	for _, o := range outcomes {
		if o.OK() {
			r.Succeeded++
		} else {
			r.Failures = append(r.Failures, o)
		}
	}
	return r
}

// Failed 失败数
func (r Report) Failed() int {
	return len(r.Failures)
}

// Err 至少一个波长成功即视为运行成功；否则合并所有失败原因
func (r Report) Err() error {
	if r.Succeeded > 0 {
		return nil
	}
	if r.Total == 0 {
		return errors.New("sweep: no wavelengths")
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%g nm: %w", f.Light.Wavelength, f.Err))
	}
	return fmt.Errorf("all %d wavelengths failed: %w", r.Total, errors.Join(errs...))
}

// String 一行摘要
func (r Report) String() string {
	return fmt.Sprintf("%d/%d wavelengths succeeded, %d failed in %s",
		r.Succeeded, r.Total, r.Failed(), r.Elapsed.Round(time.Millisecond))
}

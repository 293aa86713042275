// Package sweep 在工作池中并行计算各波长，并按输入顺序重排结果。
package sweep

import (
	"context"
	"fmt"
	"sync"

	"thinfilm/stack"
	"thinfilm/types"
)

// Task 单个波长的计算，必须是纯函数（只读共享输入）
type Task func(ctx context.Context, light types.Light) (*stack.Result, error)

// job 工作池任务
type job struct {
	TaskID int // 输入序号，用于重排
	Light  types.Light
}

// Outcome 单个波长的结果槽，Result 与 Err 恰有一个非空
type Outcome struct {
	Index  int
	Light  types.Light
	Result *stack.Result
	Err    error
}

// OK 是否成功
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

// Pool 固定大小的工作池
type Pool struct {
	task        Task
	taskQueue   chan job
	resultQueue chan Outcome
	numWorkers  int
	wg          sync.WaitGroup
}

// NewPool 创建工作池，numWorkers ≤ 0 时使用默认值
func NewPool(task Task, numWorkers, capacity int) *Pool {
	if numWorkers <= 0 {
		numWorkers = types.DefaultWorkers
	}
	return &Pool{
		task:        task,
		taskQueue:   make(chan job, capacity),
		resultQueue: make(chan Outcome, capacity),
		numWorkers:  numWorkers,
	}
}

// Start 启动所有 worker
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

// Submit 提交任务
func (p *Pool) Submit(taskID int, light types.Light) {
	p.taskQueue <- job{TaskID: taskID, Light: light}
}

// Stop 关闭任务队列并等待所有 worker 退出
func (p *Pool) Stop() {
	close(p.taskQueue)
	p.wg.Wait()
	close(p.resultQueue)
}

// Results 结果通道，Stop 后关闭
func (p *Pool) Results() <-chan Outcome {
	return p.resultQueue
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for j := range p.taskQueue {
		out := Outcome{Index: j.TaskID, Light: j.Light}
		if err := ctx.Err(); err != nil {
			// 已取消：剩余任务不再计算，只占位
			out.Err = err
		} else {
			out.Result, out.Err = p.call(ctx, j.Light)
		}
		p.resultQueue <- out
	}
}

// call 执行任务，panic 作为该波长的失败记录
func (p *Pool) call(ctx context.Context, light types.Light) (res *stack.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("wavelength %g nm: panic: %v", light.Wavelength, r)
		}
	}()
	res, err = p.task(ctx, light)
	if err == nil && res == nil {
		err = fmt.Errorf("wavelength %g nm: task returned no result", light.Wavelength)
	}
	return res, err
}

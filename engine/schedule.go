package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"go.uber.org/zap"
)

var ErrNoSeeds = errors.New("no seed requests")

type Crawler struct {
	out chan taskResult // 负责处理爬取后的数据
	Options

	pending     int // 已入队但尚未处理完的请求数
	pendingLock sync.Mutex
	done        chan struct{}
	doneOnce    sync.Once

	Visited     map[string]bool
	VisitedLock sync.Mutex
}

type Scheduler interface {
	Schedule(ctx context.Context)              // 负责启动调度器
	Push(...*collect.Request)                  // 将请求放入到调度器中
	Pull(ctx context.Context) *collect.Request // 从调度器中获取请求
}

type taskResult struct {
	task  *collect.Task
	items []interface{}
}

type ScheduleEngine struct {
	requestCh   chan *collect.Request
	workerCh    chan *collect.Request
	priReqQueue []*collect.Request
	reqQueue    []*collect.Request
	quit        chan struct{}
	Logger      *zap.Logger
}

func NewEngine(opts ...Option) *Crawler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	crawler := &Crawler{}
	crawler.out = make(chan taskResult)
	crawler.done = make(chan struct{})
	crawler.Visited = make(map[string]bool, 100)
	crawler.Options = options
	if crawler.Scheduler == nil {
		crawler.Scheduler = NewSchedule()
	}
	return crawler
}

func NewSchedule() *ScheduleEngine {
	s := &ScheduleEngine{}
	s.requestCh = make(chan *collect.Request) // 负责接收请求
	s.workerCh = make(chan *collect.Request)  // 负责分配任务
	s.quit = make(chan struct{})
	return s
}

// Schedule
/**
 * 调度的核心逻辑
 * 监听 requestCh，新的请求按优先级塞进 priReqQueue 或 reqQueue 中;
 * 优先把 priReqQueue 中的 Request 塞进 workerCh 中。
 * 请求只有真正交给 worker 之后才出队。
 */
func (s *ScheduleEngine) Schedule(ctx context.Context) {
	defer close(s.quit)
	for {
		var req *collect.Request
		var ch chan *collect.Request

		priority := len(s.priReqQueue) > 0
		if priority {
			req = s.priReqQueue[0]
			ch = s.workerCh
		} else if len(s.reqQueue) > 0 {
			req = s.reqQueue[0]
			ch = s.workerCh
		}

		select {
		case <-ctx.Done():
			return
		case r := <-s.requestCh:
			if r.Priority > 0 {
				s.priReqQueue = append(s.priReqQueue, r)
			} else {
				s.reqQueue = append(s.reqQueue, r)
			}
		case ch <- req:
			if priority {
				s.priReqQueue = s.priReqQueue[1:]
			} else {
				s.reqQueue = s.reqQueue[1:]
			}
		}
	}
}

func (s *ScheduleEngine) Push(reqs ...*collect.Request) {
	for _, req := range reqs {
		select {
		case s.requestCh <- req:
		case <-s.quit:
			return
		}
	}
}

func (s *ScheduleEngine) Pull(ctx context.Context) *collect.Request {
	select {
	case r := <-s.workerCh:
		return r
	case <-ctx.Done():
		return nil
	}
}

// Run crawls from the seed tasks until every reachable request has been
// processed or ctx is canceled. It must be called once.
func (crawler *Crawler) Run(ctx context.Context) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go crawler.Scheduler.Schedule(ctx)

	reqs := crawler.seedRequests()
	if len(reqs) == 0 {
		return ErrNoSeeds
	}

	resultDone := make(chan struct{})
	go func() {
		defer close(resultDone)
		crawler.HandleResult()
	}()

	crawler.push(reqs...)

	workCount := crawler.WorkCount
	if workCount < 1 {
		workCount = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			crawler.CreateWork(ctx)
		}()
	}

	select {
	case <-crawler.done:
		crawler.Logger.Info("all requests processed")
	case <-ctx.Done():
		crawler.Logger.Info("crawl canceled")
	}
	cancel()
	wg.Wait()
	close(crawler.out)
	<-resultDone

	return parent.Err()
}

func (crawler *Crawler) seedRequests() []*collect.Request {
	var reqs []*collect.Request
	for _, task := range crawler.Seeds {
		if task.Fetcher == nil {
			task.Fetcher = crawler.Fetcher
		}
		if task.Rule.Root == nil {
			crawler.Logger.Error("task has no root rule", zap.String("task", task.Name))
			continue
		}
		rootReqs, err := task.Rule.Root()
		if err != nil {
			crawler.Logger.Error("get root failed", zap.String("task", task.Name), zap.Error(err))
			continue
		}
		for _, req := range rootReqs {
			req.Task = task
			if req.Method == "" {
				req.Method = "GET"
			}
		}
		reqs = append(reqs, rootReqs...)
	}
	return reqs
}

func (crawler *Crawler) push(reqs ...*collect.Request) {
	crawler.pendingLock.Lock()
	crawler.pending += len(reqs)
	crawler.pendingLock.Unlock()
	crawler.Scheduler.Push(reqs...)
}

func (crawler *Crawler) finish() {
	crawler.pendingLock.Lock()
	crawler.pending--
	n := crawler.pending
	crawler.pendingLock.Unlock()
	if n == 0 {
		crawler.doneOnce.Do(func() { close(crawler.done) })
	}
}

func (crawler *Crawler) CreateWork(ctx context.Context) {
	for {
		req := crawler.Scheduler.Pull(ctx)
		if req == nil {
			return
		}
		crawler.process(ctx, req)
		crawler.finish()
	}
}

func (crawler *Crawler) process(ctx context.Context, req *collect.Request) {
	logger := crawler.Logger.With(zap.String("url", req.URL), zap.String("rule", req.RuleName))

	if err := req.Check(); err != nil { // 检查当前 request 是否已经达到最大深度限制
		logger.Error("check failed", zap.Error(err))
		return
	}
	if !crawler.firstVisit(req) && !req.Reload && !req.Task.Reload {
		logger.Debug("request has visited")
		return
	}

	rule := req.Task.Rule.Trunk[req.RuleName]
	if rule == nil {
		logger.Error("rule not found")
		return
	}

	fetcher := req.Task.Fetcher
	if fetcher == nil {
		fetcher = crawler.Fetcher
	}
	body, err := fetcher.Get(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if rule.ErrFunc != nil {
			rule.ErrFunc(req, err)
		} else {
			logger.Error("can't fetch", zap.Error(err))
		}
		return
	}

	result, err := rule.ParseFunc(&collect.Context{Body: body, Req: req})
	if err != nil {
		logger.Error("ParseFunc failed", zap.Error(err))
		return
	}

	for _, r := range result.Requests {
		if r.Task == nil {
			r.Task = req.Task
		}
	}
	if len(result.Requests) > 0 {
		crawler.push(result.Requests...)
	}
	if len(result.Items) > 0 {
		crawler.out <- taskResult{task: req.Task, items: result.Items}
	}
}

func (crawler *Crawler) HandleResult() {
	for result := range crawler.out {
		for _, item := range result.items {
			switch d := item.(type) {
			case *collector.MerchantRecord:
				crawler.save(result.task, *d)
			case collector.MerchantRecord:
				crawler.save(result.task, d)
			default:
				crawler.Logger.Sugar().Info("get result: ", item)
			}
		}
	}
}

func (crawler *Crawler) save(task *collect.Task, record collector.MerchantRecord) {
	storage := task.Storage
	if storage == nil {
		crawler.Logger.Warn("no storage configured, dropping record", zap.String("url", record.SourceURL))
		return
	}
	if err := storage.Save(record); err != nil {
		crawler.Logger.Error("save record failed", zap.String("url", record.SourceURL), zap.Error(err))
	}
}

func (crawler *Crawler) HasVisited(r *collect.Request) bool {
	crawler.VisitedLock.Lock()
	defer crawler.VisitedLock.Unlock()
	return crawler.Visited[r.Unique()]
}

// firstVisit marks r as visited and reports whether it was new.
func (crawler *Crawler) firstVisit(r *collect.Request) bool {
	crawler.VisitedLock.Lock()
	defer crawler.VisitedLock.Unlock()
	key := r.Unique()
	if crawler.Visited[key] {
		return false
	}
	crawler.Visited[key] = true
	return true
}

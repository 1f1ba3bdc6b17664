package collect

type Property struct {
	Name     string `json:"name"` // 任务名称，应保证唯一性
	URL      string `json:"url"`
	Cookie   string `json:"cookie"`
	Reload   bool   `json:"reload"` // 网站是否可以重复爬取
	MaxDepth int    `json:"max_depth"`
}

// Task 整个任务实例，所有请求共享的参数
type Task struct {
	Options
	Rule RuleTree // 任务中的规则
}

type TaskConfig struct {
	Name     string
	URL      string
	Cookie   string
	Reload   bool
	MaxDepth int
	MaxItems int
	Fetcher  string
	Limits   []LimitConfig
}

type LimitConfig struct {
	EventCount int
	EventDur   int // 秒
	Bucket     int // 桶大小
}

func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	t := &Task{}
	t.Options = options

	return t
}

package merchantpoint

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"go.uber.org/zap"
)

const (
	TaskName        = "merchantpoint"
	DefaultURL      = "https://merchantpoint.ru/brands"
	DefaultMaxItems = 1000
)

// 规则名
const (
	RuleBrandList      = "brand_list"
	RuleBrandDetail    = "brand_detail"
	RuleMerchantDetail = "merchant_detail"
)

// detailPriority puts detail pages ahead of further listing pages so the
// item limit is reached without paging through the whole index first.
const detailPriority = 1

type parser struct {
	state  *CrawlState
	logger *zap.Logger
}

// NewTask builds the merchantpoint rule tree. Records are counted against
// state.
func NewTask(state *CrawlState, opts ...collect.Option) *collect.Task {
	opts = append([]collect.Option{
		collect.WithName(TaskName),
		collect.WithURL(DefaultURL),
	}, opts...)
	task := collect.NewTask(opts...)

	p := &parser{state: state, logger: task.Logger.Named(TaskName)}
	task.Rule = collect.RuleTree{
		Root: func() ([]*collect.Request, error) {
			roots := []*collect.Request{
				{
					Task:     task,
					URL:      task.URL,
					Method:   "GET",
					RuleName: RuleBrandList,
				},
			}
			return roots, nil
		},
		Trunk: map[string]*collect.Rule{
			RuleBrandList: {
				ParseFunc: p.ParseBrandList,
				ErrFunc:   p.HandleError,
			},
			RuleBrandDetail: {
				ItemFields: collector.Columns,
				ParseFunc:  p.ParseBrand,
				ErrFunc:    p.HandleError,
			},
			RuleMerchantDetail: {
				ItemFields: collector.Columns,
				ParseFunc:  p.ParseMerchant,
				ErrFunc:    p.HandleError,
			},
		},
	}
	return task
}

// HandleError logs a failed request. The branch below it is abandoned.
func (p *parser) HandleError(req *collect.Request, err error) {
	p.logger.Error("request failed",
		zap.String("url", req.URL),
		zap.String("rule", req.RuleName),
		zap.Error(err))
}

func (p *parser) emit(result *collect.ParseResult, record collector.MerchantRecord) {
	n, ok := p.state.TryEmit()
	if !ok {
		p.logger.Info("item limit reached, record dropped",
			zap.Int("max_items", p.state.Max()),
			zap.String("url", record.SourceURL))
		return
	}
	result.Items = append(result.Items, record)
	p.logger.Info("scraped item",
		zap.Int("count", n),
		zap.String("merchant", record.MerchantName))
}

package proxy

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	cproxy "github.com/gocolly/colly/v2/proxy"
)

// RoundRobinProxySwitcher 轮询代理地址。urls 为空时返回 nil，即直连
func RoundRobinProxySwitcher(urls ...string) (collect.ProxyFunc, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	f, err := cproxy.RoundRobinProxySwitcher(urls...)
	if err != nil {
		return nil, err
	}
	return collect.ProxyFunc(f), nil
}

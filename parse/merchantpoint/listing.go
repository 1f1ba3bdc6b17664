package merchantpoint

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/extract"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ParseBrandList turns each brand row into a brand page request and follows
// the pagination link.
func (p *parser) ParseBrandList(ctx *collect.Context) (collect.ParseResult, error) {
	result := collect.ParseResult{}
	doc, err := ctx.Document()
	if err != nil {
		return result, err
	}
	p.logger.Info("parsing brands page", zap.String("url", ctx.Req.URL))

	doc.Find(listingRowSel).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if p.state.Reached() {
			p.logger.Info("reached maximum items limit", zap.Int("max_items", p.state.Max()))
			return false
		}
		link := row.Find(linkCellSel).First()
		brandURL := ctx.AbsURL(extract.Attr(link, "href"))
		if brandURL == "" {
			return true
		}
		req := ctx.Req.Follow(brandURL, RuleBrandDetail, BrandContext{
			BrandURL:  brandURL,
			BrandName: extract.OwnText(link),
		})
		req.Priority = detailPriority
		result.Requests = append(result.Requests, req)
		return true
	})

	if !p.state.Reached() {
		if next := ctx.AbsURL(extract.FirstRaw(doc, "", nextPageStrategies...)); next != "" {
			result.Requests = append(result.Requests, ctx.Req.Follow(next, RuleBrandList, nil))
		}
	}

	p.logger.Debug("parse brand list", zap.Int("count", len(result.Requests)))
	return result, nil
}

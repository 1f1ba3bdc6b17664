package merchantpoint

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/Nrich-sunny/merchantpoint/extract"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ParseBrand reads the organization block and the merchant table of a brand
// page. Rows with a link lead to merchant pages; rows without one become
// records straight from the table.
func (p *parser) ParseBrand(ctx *collect.Context) (collect.ParseResult, error) {
	result := collect.ParseResult{}
	doc, err := ctx.Document()
	if err != nil {
		return result, err
	}
	p.logger.Info("parsing brand page", zap.String("url", ctx.Req.URL))

	brand, _ := ctx.Req.Payload.(BrandContext)
	brandURL := brand.BrandURL
	if brandURL == "" {
		brandURL = ctx.Req.URL
	}
	orgName := extract.First(doc, brand.BrandName, headingStrategies...)
	orgDescription := description(doc)

	rows, idx := extract.FirstMatch(doc, merchantRowSels...)
	switch {
	case idx < 0:
		p.logger.Warn("no merchant rows found", zap.String("url", ctx.Req.URL))
	case idx > 0:
		p.logger.Warn("merchant rows found with fallback selector",
			zap.String("url", ctx.Req.URL),
			zap.String("selector", merchantRowSels[idx]))
	}

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if p.state.Reached() {
			return false
		}
		code := extract.Text(row.Find(codeCellSel))
		link := row.Find(linkCellSel).First()
		name := extract.Text(link)
		if name == "" {
			name = extract.Text(row.Find(nameCellSel))
		}
		address := extract.Text(row.Find(addrCellSel))

		if merchantURL := ctx.AbsURL(extract.Attr(link, "href")); merchantURL != "" {
			req := ctx.Req.Follow(merchantURL, RuleMerchantDetail, MerchantContext{
				OrgName:        orgName,
				OrgDescription: orgDescription,
				BrandURL:       brandURL,
				CategoryCode:   code,
				MerchantName:   name,
				Address:        address,
			})
			req.Priority = detailPriority
			result.Requests = append(result.Requests, req)
			return true
		}

		if name == "" || code == "" {
			return true
		}
		p.emit(&result, collector.MerchantRecord{
			MerchantName:   name,
			CategoryCode:   extract.CategoryCode(code),
			Address:        address,
			OrgName:        orgName,
			OrgDescription: orgDescription,
			SourceURL:      ctx.Req.URL,
		})
		return true
	})

	return result, nil
}

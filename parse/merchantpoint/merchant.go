package merchantpoint

import (
	"github.com/Nrich-sunny/merchantpoint/collect"
	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/Nrich-sunny/merchantpoint/extract"
	"go.uber.org/zap"
)

// ParseMerchant resolves every field of a merchant page, falling back to
// the values carried over from the brand table.
func (p *parser) ParseMerchant(ctx *collect.Context) (collect.ParseResult, error) {
	result := collect.ParseResult{}
	doc, err := ctx.Document()
	if err != nil {
		return result, err
	}
	p.logger.Info("parsing merchant page", zap.String("url", ctx.Req.URL))

	mc, _ := ctx.Req.Payload.(MerchantContext)

	geo := make([]extract.Strategy, 0, len(coordinateStrategies)+1)
	geo = append(geo, coordinateStrategies...)
	geo = append(geo, markupCoords(string(ctx.Body)))

	p.emit(&result, collector.MerchantRecord{
		MerchantName:   extract.First(doc, mc.MerchantName, ownText(headingSel)),
		CategoryCode:   extract.CategoryCode(extract.First(doc, mc.CategoryCode, codeStrategies...)),
		Address:        extract.First(doc, mc.Address, addressStrategies...),
		GeoCoordinates: extract.CleanCoordinates(extract.FirstRaw(doc, mc.Coordinates, geo...)),
		OrgName:        mc.OrgName,
		OrgDescription: mc.OrgDescription,
		SourceURL:      ctx.Req.URL,
	})
	return result, nil
}

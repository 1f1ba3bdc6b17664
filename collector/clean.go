package collector

import (
	"strings"

	"github.com/Nrich-sunny/merchantpoint/extract"
	"go.uber.org/zap"
)

// CleanPipeline normalizes records before handing them to the next store.
type CleanPipeline struct {
	next   Store
	logger *zap.Logger
}

func NewCleanPipeline(next Store, logger *zap.Logger) *CleanPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanPipeline{next: next, logger: logger}
}

func (p *CleanPipeline) Save(records ...MerchantRecord) error {
	cleaned := make([]MerchantRecord, 0, len(records))
	for _, r := range records {
		cleaned = append(cleaned, p.Clean(r))
	}
	return p.next.Save(cleaned...)
}

func (p *CleanPipeline) Close() error {
	return p.next.Close()
}

// Clean collapses whitespace in every text field, drops category codes that
// are not exactly four digits and truncates the description.
func (p *CleanPipeline) Clean(r MerchantRecord) MerchantRecord {
	code := strings.TrimSpace(r.CategoryCode)
	if code != "" && !extract.ValidCategoryCode(code) {
		p.logger.Warn("invalid category code",
			zap.String("code", code),
			zap.String("url", r.SourceURL))
		code = ""
	}
	return MerchantRecord{
		MerchantName:   extract.Clean(r.MerchantName),
		CategoryCode:   code,
		Address:        extract.Clean(r.Address),
		GeoCoordinates: extract.CleanCoordinates(r.GeoCoordinates),
		OrgName:        extract.Clean(r.OrgName),
		OrgDescription: extract.Description(r.OrgDescription),
		SourceURL:      strings.TrimSpace(r.SourceURL),
	}
}

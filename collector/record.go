package collector

// MerchantRecord is one merchant row as written to the output file.
// Empty strings stand for missing values.
type MerchantRecord struct {
	MerchantName   string `json:"merchant_name"`
	CategoryCode   string `json:"category_code"`
	Address        string `json:"address"`
	GeoCoordinates string `json:"geo_coordinates"`
	OrgName        string `json:"org_name"`
	OrgDescription string `json:"org_description"`
	SourceURL      string `json:"source_url"`
}

// Columns is the output column order.
var Columns = []string{
	"merchant_name",
	"category_code",
	"address",
	"geo_coordinates",
	"org_name",
	"org_description",
	"source_url",
}

// Values returns the record fields in Columns order.
func (r MerchantRecord) Values() []string {
	return []string{
		r.MerchantName,
		r.CategoryCode,
		r.Address,
		r.GeoCoordinates,
		r.OrgName,
		r.OrgDescription,
		r.SourceURL,
	}
}

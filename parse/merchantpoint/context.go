package merchantpoint

// BrandContext travels from a listing page to the brand page it links to.
type BrandContext struct {
	BrandURL  string
	BrandName string
}

// MerchantContext travels from a brand page to a merchant page. The table
// values are used when the merchant page lacks a field. Coordinates is never
// filled from a brand table; it only serves merchant pages seeded with a
// caller-supplied context.
type MerchantContext struct {
	OrgName        string
	OrgDescription string
	BrandURL       string
	CategoryCode   string
	MerchantName   string
	Address        string
	Coordinates    string
}

package collector

// Store persists merchant records. Implementations are safe for concurrent use.
type Store interface {
	Save(records ...MerchantRecord) error
	Close() error
}

package cache

// tableSchema versions the aggregated table encoding. Bump it when the
// aggregation rules change so stale entries stop matching.
const tableSchema = 1

// TableKeyOpts are the parse options that change an aggregated table.
type TableKeyOpts struct {
	Delimiter rune `json:"delimiter"`
	Comment   rune `json:"comment,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// TableKey is the key for the table aggregated from content with the
	// given hash.
	TableKey(contentHash string, opts TableKeyOpts) string
}

// DefaultKeyer produces "table:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TableKey implements Keyer.
func (DefaultKeyer) TableKey(contentHash string, opts TableKeyOpts) string {
	return hashKey("table", tableSchema, contentHash, opts)
}

// ScopedKeyer prefixes every key, so several tools can share one Redis
// database without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TableKey implements Keyer.
func (k *ScopedKeyer) TableKey(contentHash string, opts TableKeyOpts) string {
	return k.prefix + k.inner.TableKey(contentHash, opts)
}

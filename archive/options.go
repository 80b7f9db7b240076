package archive

// Limits bounds what an archive header can make the reader allocate.
// Zero fields take their defaults.
type Limits struct {
	MaxEntries     uint32
	MaxExtractSize uint64 // decoded size of one LZH entry
}

func defaultLimits() Limits {
	return Limits{
		MaxEntries:     1 << 16,
		MaxExtractSize: 256 << 20,
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxEntries == 0 {
		l.MaxEntries = d.MaxEntries
	}
	if l.MaxExtractSize == 0 {
		l.MaxExtractSize = d.MaxExtractSize
	}
	return l
}

// DefaultLimits returns the limits used when none are supplied.
func DefaultLimits() Limits { return defaultLimits() }

type openConfig struct {
	limits Limits
}

type Option func(*openConfig)

func WithLimits(l Limits) Option {
	return func(c *openConfig) { c.limits = l }
}

func newOpenConfig(opts []Option) openConfig {
	cfg := openConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	return cfg
}

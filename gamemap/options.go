package gamemap

type readConfig struct {
	limits Limits
}

type ReadOption func(*readConfig)

func WithReadLimits(l Limits) ReadOption {
	return func(c *readConfig) { c.limits = l }
}

type writeConfig struct {
	compression Compression
}

type WriteOption func(*writeConfig)

// WithCompression wraps the written map in a packed envelope. CompNone, the
// default, writes a plain .map file the game can load.
func WithCompression(comp Compression) WriteOption {
	return func(c *writeConfig) { c.compression = comp }
}

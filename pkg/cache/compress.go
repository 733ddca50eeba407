package cache

import (
	"context"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Compressed wraps a Cache and stores values zstd-compressed.
// Values that fail to decode are reported as misses.
type Compressed struct {
	inner Cache

	once sync.Once
	enc  *zstd.Encoder
	dec  *zstd.Decoder
	err  error
}

// NewCompressed wraps inner.
func NewCompressed(inner Cache) *Compressed {
	return &Compressed{inner: inner}
}

func (c *Compressed) init() error {
	c.once.Do(func() {
		c.enc, c.err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if c.err != nil {
			return
		}
		c.dec, c.err = zstd.NewReader(nil)
	})
	return c.err
}

// Get implements Cache.
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := c.init(); err != nil {
		return nil, false, err
	}
	data, err := c.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, false, nil
	}
	return data, true, nil
}

// Set implements Cache.
func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.init(); err != nil {
		return err
	}
	return c.inner.Set(ctx, key, c.enc.EncodeAll(data, nil), ttl)
}

// Delete implements Cache.
func (c *Compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close releases the codec and closes the wrapped cache.
func (c *Compressed) Close() error {
	if c.dec != nil {
		c.dec.Close()
	}
	return c.inner.Close()
}

var _ Cache = (*Compressed)(nil)

package kv

import "context"

// Prefixed namespaces every key, e.g. "storefront:cart", so several
// storefronts can share one redis or mongo instance.
type Prefixed struct {
	inner  Storage
	prefix string
}

func WithPrefix(inner Storage, prefix string) Storage {
	if prefix == "" {
		return inner
	}
	return &Prefixed{inner: inner, prefix: prefix}
}

func (p *Prefixed) key(k string) string {
	return p.prefix + ":" + k
}

func (p *Prefixed) Read(ctx context.Context, key string) (string, error) {
	return p.inner.Read(ctx, p.key(key))
}

func (p *Prefixed) Write(ctx context.Context, key, value string) error {
	return p.inner.Write(ctx, p.key(key), value)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.key(key))
}

// Package cache holds the product-listing cache. It is a bounded-staleness
// optimization: a hit returns the prior response unchanged for up to the TTL
// even if the catalog mutated underneath it. Admin product mutations flush
// it, which only shortens the staleness window.
package cache

import (
	"net/url"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type ProductList struct {
	store *gocache.Cache
}

func NewProductList(ttl time.Duration) *ProductList {
	return &ProductList{store: gocache.New(ttl, 2*ttl)}
}

func (pl *ProductList) Get(key string) (interface{}, bool) {
	return pl.store.Get(key)
}

func (pl *ProductList) Set(key string, value interface{}) {
	pl.store.Set(key, value, gocache.DefaultExpiration)
}

func (pl *ProductList) Flush() {
	pl.store.Flush()
}

// Key canonicalizes a query so that parameter order does not fragment the
// cache.
func Key(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(values[k], ","))
	}
	return b.String()
}

package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyCanonicalizesOrder(t *testing.T) {
	a, _ := url.ParseQuery("category=bags&sort=price-asc&page=2")
	b, _ := url.ParseQuery("page=2&category=bags&sort=price-asc")

	assert.Equal(t, Key(a), Key(b))
	assert.Equal(t, "category=bags&page=2&sort=price-asc", Key(a))
}

func TestKeyDistinguishesValues(t *testing.T) {
	a, _ := url.ParseQuery("page=1")
	b, _ := url.ParseQuery("page=2")

	assert.NotEqual(t, Key(a), Key(b))
}

func TestKeyEmpty(t *testing.T) {
	assert.Equal(t, "", Key(url.Values{}))
}

func TestProductListSetGetFlush(t *testing.T) {
	pl := NewProductList(time.Minute)

	_, ok := pl.Get("missing")
	assert.False(t, ok)

	pl.Set("k", "v")
	got, ok := pl.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	pl.Flush()
	_, ok = pl.Get("k")
	assert.False(t, ok)
}

func TestProductListExpiry(t *testing.T) {
	pl := NewProductList(10 * time.Millisecond)
	pl.Set("k", "v")

	time.Sleep(30 * time.Millisecond)

	_, ok := pl.Get("k")
	assert.False(t, ok)
}

package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	b := NoopBundleHooks{}
	b.OnGenerateStart(ctx, "lagoon")
	b.OnGenerateComplete(ctx, "lagoon", 5, time.Second, nil)
	b.OnStylesheet(ctx, "lagoon", "style.css", 3, 2, 1)
	b.OnRender(ctx, "lagoon", 4, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "bundle")
	c.OnCacheMiss(ctx, "bundle")
	c.OnCacheSet(ctx, "bundle", 1024)
	c.OnInvalidate(ctx, "library_info")

	h := NoopHTTPHooks{}
	h.OnResponse(ctx, "GET", "/themes/{theme}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Bundle() should return NoopBundleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customBundle := &testBundleHooks{}
	SetBundleHooks(customBundle)
	if Bundle() != customBundle {
		t.Error("SetBundleHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Bundle().(NoopBundleHooks); !ok {
		t.Error("Reset() should restore NoopBundleHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testBundleHooks{}
	SetBundleHooks(custom)
	SetBundleHooks(nil)

	if Bundle() != custom {
		t.Error("SetBundleHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.OnGenerateComplete(ctx, "lagoon", 3, time.Millisecond, nil)
	p.OnGenerateComplete(ctx, "lagoon", 0, time.Millisecond, errors.New("boom"))
	p.OnStylesheet(ctx, "lagoon", "style.css", 4, 2, 1)
	p.OnCacheHit(ctx, "bundle")
	p.OnCacheSet(ctx, "bundle", 100)
	p.OnCacheSet(ctx, "bundle", 50)
	p.OnInvalidate(ctx, "library_info")
	p.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"ok generations", testutil.ToFloat64(p.generations.WithLabelValues("lagoon", "ok")), 1},
		{"failed generations", testutil.ToFloat64(p.generations.WithLabelValues("lagoon", "error")), 1},
		{"shifted colors", testutil.ToFloat64(p.stylesheetColors.WithLabelValues("lagoon", "shifted")), 2},
		{"cache hits", testutil.ToFloat64(p.cacheOps.WithLabelValues("bundle", "hit")), 1},
		{"cache bytes", testutil.ToFloat64(p.cacheBytes.WithLabelValues("bundle")), 150},
		{"invalidations", testutil.ToFloat64(p.invalidations.WithLabelValues("library_info")), 1},
		{"http requests", testutil.ToFloat64(p.httpRequests.WithLabelValues("GET", "/healthz", "200")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n, err := testutil.GatherAndCount(reg, "recolor_bundle_generations_total"); err != nil || n != 2 {
		t.Errorf("gathered %d generation series, err %v", n, err)
	}
}

// Test implementations
type testBundleHooks struct{ NoopBundleHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

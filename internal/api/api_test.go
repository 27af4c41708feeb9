package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/codec"
	"github.com/unkn0wn-root/repcache/genstore"
	"github.com/unkn0wn-root/repcache/internal/shop"
	"github.com/unkn0wn-root/repcache/internal/store"
	"github.com/unkn0wn-root/repcache/internal/store/memstore"
)

const testHost = "https://bazaar.test"

// flakyGens fails every Bump while broken is set.
type flakyGens struct {
	genstore.GenStore
	broken atomic.Bool
}

func (g *flakyGens) Bump(ctx context.Context, k string) (uint64, error) {
	if g.broken.Load() {
		return 0, errors.New("generation store unavailable")
	}
	return g.GenStore.Bump(ctx, k)
}

type harness struct {
	t     *testing.T
	h     http.Handler
	store *memstore.Store
	stats *repcache.Stats
	gens  *flakyGens
}

func newHarness(t *testing.T, maxBody int) *harness {
	t.Helper()
	return newHarnessWith(t, maxBody, func(st *memstore.Store) store.Store { return st })
}

// newHarnessWith serves through wrap(st), so a test can alter what loaders
// see without going through the write path.
func newHarnessWith(t *testing.T, maxBody int, wrap func(*memstore.Store) store.Store) *harness {
	t.Helper()
	gens := &flakyGens{GenStore: genstore.NewLocalGenStore(time.Hour, 24*time.Hour)}
	stats := &repcache.Stats{}
	cache, err := repcache.New(repcache.Options{Capacity: 64, Hooks: stats, GenStore: gens})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close(context.Background()) })

	st := memstore.New()
	srv := New(Options{Cache: cache, Store: wrap(st), Stats: stats, Host: testHost + "/", MaxBodyBytes: maxBody})
	return &harness{t: t, h: srv.Handler(), store: st, stats: stats, gens: gens}
}

func (h *harness) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case []byte:
		rd = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.h.ServeHTTP(rec, req)
	return rec
}

// seed creates one owner and n shops.
func (h *harness) seed(n int) {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/owners", map[string]any{"name": "Lydia", "mod_version": "1.0.0"})
	require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	for i := 1; i <= n; i++ {
		rec := h.do(http.MethodPost, "/v1/shops", map[string]any{
			"name":        fmt.Sprintf("Shop %d", i),
			"owner_id":    1,
			"description": "swords",
		})
		require.Equal(h.t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func decodeJSON[V any](t *testing.T, rec *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestShopSevenScenario(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(7)

	first := h.do(http.MethodGet, "/v1/shops/7", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))
	assert.Equal(t, codec.MediaTypeJSON, first.Header().Get("Content-Type"))
	assert.Equal(t, "Accept", first.Header().Get("Vary"))
	t1 := first.Header().Get("ETag")
	require.NotEmpty(t, t1)

	second := h.do(http.MethodGet, "/v1/shops/7", nil)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, t1, second.Header().Get("ETag"))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())

	cond := h.do(http.MethodGet, "/v1/shops/7", nil, "If-None-Match", t1)
	assert.Equal(t, http.StatusNotModified, cond.Code)
	assert.Empty(t, cond.Body.Bytes())
	assert.Equal(t, t1, cond.Header().Get("ETag"))

	patch := h.do(http.MethodPatch, "/v1/shops/7", map[string]any{"description": "shields"})
	require.Equal(t, http.StatusOK, patch.Code, patch.Body.String())

	after := h.do(http.MethodGet, "/v1/shops/7", nil, "If-None-Match", t1)
	require.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, "miss", after.Header().Get("X-Cache"))
	t2 := after.Header().Get("ETag")
	assert.NotEqual(t, t1, t2)
	assert.Equal(t, patch.Header().Get("ETag"), t2, "write response and next read share the token")
	desc := decodeJSON[shop.Shop](t, after)
	assert.Equal(t, "shields", desc.Description)

	compact := h.do(http.MethodGet, "/v1/shops/7", nil, "Accept", "application/octet-stream")
	require.Equal(t, http.StatusOK, compact.Code)
	assert.Equal(t, "miss", compact.Header().Get("X-Cache"))
	assert.Equal(t, codec.MediaTypeMsgpack, compact.Header().Get("Content-Type"))
	assert.NotEqual(t, after.Body.Bytes(), compact.Body.Bytes())

	var fromCompact shop.Shop
	require.NoError(t, msgpack.Unmarshal(compact.Body.Bytes(), &fromCompact))
	assert.Equal(t, desc.ID, fromCompact.ID)
	assert.Equal(t, desc.Name, fromCompact.Name)
	assert.Equal(t, desc.Description, fromCompact.Description)
	assert.Equal(t, desc.OwnerID, fromCompact.OwnerID)
	assert.True(t, desc.UpdatedAt.Equal(fromCompact.UpdatedAt))
}

func TestCreateSetsLocation(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(0)
	rec := h.do(http.MethodPost, "/v1/shops", map[string]any{"name": "Warmaiden's", "owner_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testHost+"/v1/shops/1", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	// the owner's API key never leaves the server
	owner := h.do(http.MethodGet, "/v1/owners/1", nil)
	assert.NotContains(t, owner.Body.String(), "api_key")
}

func TestOwnerAddressFromRequest(t *testing.T) {
	h := newHarness(t, 0)

	// httptest requests come from 192.0.2.1:1234
	rec := h.do(http.MethodPost, "/v1/owners", map[string]any{"name": "Lydia", "mod_version": "1.0.0"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o := decodeJSON[shop.Owner](t, rec)
	require.NotNil(t, o.IPAddress)
	assert.Equal(t, "192.0.2.1", *o.IPAddress)

	rec = h.do(http.MethodPost, "/v1/owners", map[string]any{"name": "Faendal", "mod_version": "1.0.0"},
		"X-Real-IP", "203.0.113.9")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o = decodeJSON[shop.Owner](t, rec)
	require.NotNil(t, o.IPAddress)
	assert.Equal(t, "203.0.113.9", *o.IPAddress)

	rec = h.do(http.MethodPost, "/v1/owners", map[string]any{"name": "Camilla", "mod_version": "1.0.0", "ip_address": "198.51.100.4"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o = decodeJSON[shop.Owner](t, rec)
	require.NotNil(t, o.IPAddress)
	assert.Equal(t, "198.51.100.4", *o.IPAddress)
}

func TestAcceptQualityZeroRefusesCompact(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)

	cases := []struct {
		accept string
		want   string
	}{
		{"application/json, application/octet-stream;q=0", codec.MediaTypeJSON},
		{codec.MediaTypeMsgpack + ";q=0.0", codec.MediaTypeJSON},
		{"application/octet-stream;q=0.5, application/json", codec.MediaTypeMsgpack},
		{"application/octet-stream", codec.MediaTypeMsgpack},
	}
	for _, tc := range cases {
		rec := h.do(http.MethodGet, "/v1/shops/1", nil, "Accept", tc.accept)
		require.Equal(t, http.StatusOK, rec.Code, tc.accept)
		assert.Equal(t, tc.want, rec.Header().Get("Content-Type"), tc.accept)
	}
}

func TestEncodedResponsesCarryWeakETag(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)

	plain := h.do(http.MethodGet, "/v1/shops/1", nil)
	require.Equal(t, http.StatusOK, plain.Code)
	strong := plain.Header().Get("ETag")
	require.True(t, strings.HasPrefix(strong, `"`), strong)

	gz := h.do(http.MethodGet, "/v1/shops/1", nil, "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, gz.Code)
	assert.Equal(t, "gzip", gz.Header().Get("Content-Encoding"))
	assert.Equal(t, "W/"+strong, gz.Header().Get("ETag"))

	// either form revalidates
	for _, tag := range []string{strong, "W/" + strong} {
		rec := h.do(http.MethodGet, "/v1/shops/1", nil, "If-None-Match", tag, "Accept-Encoding", "gzip")
		assert.Equal(t, http.StatusNotModified, rec.Code, tag)
	}
}

func TestNotFoundProblem(t *testing.T) {
	h := newHarness(t, 0)
	rec := h.do(http.MethodGet, "/v1/shops/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, mediaProblem, rec.Header().Get("Content-Type"))
	p := decodeJSON[problem](t, rec)
	assert.Equal(t, http.StatusNotFound, p.Status)
	assert.Equal(t, "/v1/shops/99", p.Instance)

	// nothing is cached for a missing resource
	rec = h.do(http.MethodGet, "/v1/shops/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, h.stats.Snapshot().Hits)

	rec = h.do(http.MethodGet, "/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientErrors(t *testing.T) {
	h := newHarness(t, 64)
	h.seed(1)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		header []string
		want   int
	}{
		{"bad id", http.MethodGet, "/v1/shops/abc", nil, nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/v1/shops/0", nil, nil, http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/v1/shops?limit=0", nil, nil, http.StatusBadRequest},
		{"bad order", http.MethodGet, "/v1/shops?order_by=name", nil, nil, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/v1/shops", map[string]any{"owner_id": 1}, nil, http.StatusBadRequest},
		{"unknown owner", http.MethodPost, "/v1/shops", map[string]any{"name": "x", "owner_id": 5}, nil, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/v1/shops", []byte("{"), nil, http.StatusBadRequest},
		{"unsupported media", http.MethodPost, "/v1/shops", []byte("name=x"), []string{"Content-Type", "text/plain"}, http.StatusUnsupportedMediaType},
		{"too large", http.MethodPatch, "/v1/shops/1", map[string]any{"description": string(bytes.Repeat([]byte("x"), 100))}, nil, http.StatusRequestEntityTooLarge},
		{"first vendor", http.MethodPost, "/v1/vendors", map[string]any{"shop_id": 1, "name": "Lucan", "race": "Imperial"}, nil, http.StatusCreated},
		{"conflict", http.MethodPost, "/v1/vendors", map[string]any{"shop_id": 1, "name": "Camilla", "race": "Imperial"}, nil, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := h.do(tc.method, tc.path, tc.body, tc.header...)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestListVariantsInvalidateTogether(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(2)

	all := h.do(http.MethodGet, "/v1/shops", nil)
	require.Equal(t, http.StatusOK, all.Code)
	assert.Equal(t, "miss", all.Header().Get("X-Cache"))
	assert.Len(t, decodeJSON[[]shop.Shop](t, all), 2)

	assert.Equal(t, "hit", h.do(http.MethodGet, "/v1/shops", nil).Header().Get("X-Cache"))
	// same canonical params, different spelling
	assert.Equal(t, "hit", h.do(http.MethodGet, "/v1/shops?order=DESC&limit=10", nil).Header().Get("X-Cache"))
	assert.Equal(t, "miss", h.do(http.MethodGet, "/v1/shops?limit=1", nil).Header().Get("X-Cache"))
	assert.Equal(t, "hit", h.do(http.MethodGet, "/v1/shops?limit=1", nil).Header().Get("X-Cache"))

	rec := h.do(http.MethodPost, "/v1/shops", map[string]any{"name": "Shop 3", "owner_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	all = h.do(http.MethodGet, "/v1/shops", nil)
	assert.Equal(t, "miss", all.Header().Get("X-Cache"))
	assert.Len(t, decodeJSON[[]shop.Shop](t, all), 3)
	assert.Equal(t, "miss", h.do(http.MethodGet, "/v1/shops?limit=1", nil).Header().Get("X-Cache"))

	empty := h.do(http.MethodGet, "/v1/vendors", nil)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, "[]", empty.Body.String())
}

func TestTransactionRefreshesMerchandiseList(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)

	stock := map[string]any{"form_list": []map[string]any{
		{"mod_name": "Skyrim.esm", "local_form_id": 77751, "name": "Iron Sword", "quantity": 3, "form_type": 41, "price": 25},
	}}
	rec := h.do(http.MethodPatch, "/v1/shops/1/merchandise_list", stock)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ml := decodeJSON[shop.MerchandiseList](t, rec)

	byShop := "/v1/shops/1/merchandise_list"
	byID := fmt.Sprintf("/v1/merchandise_lists/%d", ml.ID)
	assert.Equal(t, "miss", h.do(http.MethodGet, byShop, nil).Header().Get("X-Cache"))
	assert.Equal(t, "hit", h.do(http.MethodGet, byShop, nil).Header().Get("X-Cache"))
	assert.Equal(t, "miss", h.do(http.MethodGet, byID, nil).Header().Get("X-Cache"))
	assert.Equal(t, "miss", h.do(http.MethodGet, "/v1/shops/1/transactions", nil).Header().Get("X-Cache"))

	rec = h.do(http.MethodPost, "/v1/transactions", map[string]any{
		"shop_id": 1, "mod_name": "Skyrim.esm", "local_form_id": 77751, "quantity": 2, "amount": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, path := range []string{byShop, byID} {
		got := h.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, got.Code)
		assert.Equal(t, "miss", got.Header().Get("X-Cache"), path)
		l := decodeJSON[shop.MerchandiseList](t, got)
		require.Len(t, l.FormList, 1)
		assert.EqualValues(t, 1, l.FormList[0].Quantity, path)
	}

	txs := h.do(http.MethodGet, "/v1/shops/1/transactions", nil)
	assert.Equal(t, "miss", txs.Header().Get("X-Cache"))
	assert.Len(t, decodeJSON[[]shop.Transaction](t, txs), 1)

	// overselling is rejected and changes nothing
	rec = h.do(http.MethodPost, "/v1/transactions", map[string]any{
		"shop_id": 1, "mod_name": "Skyrim.esm", "local_form_id": 77751, "quantity": 5, "amount": 125,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "hit", h.do(http.MethodGet, byShop, nil).Header().Get("X-Cache"))
}

// hoardingShops reports one more gold than int32 holds for every shop read.
type hoardingShops struct {
	*memstore.Store
}

func (s hoardingShops) GetShop(ctx context.Context, id int64) (shop.Shop, error) {
	v, err := s.Store.GetShop(ctx, id)
	v.VendorGold = int64(math.MaxInt32) + 1
	return v, err
}

func TestCompactDomainViolationIs500(t *testing.T) {
	h := newHarnessWith(t, 0, func(st *memstore.Store) store.Store { return hoardingShops{st} })
	h.seed(1)

	compact := h.do(http.MethodGet, "/v1/shops/1", nil, "Accept", codec.MediaTypeMsgpack)
	assert.Equal(t, http.StatusInternalServerError, compact.Code)
	assert.Equal(t, mediaProblem, compact.Header().Get("Content-Type"))
	assert.NotContains(t, compact.Body.String(), "vendor_gold")
	assert.EqualValues(t, 1, h.stats.Snapshot().EncodeFailures)

	// the descriptive form has no such limit
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/v1/shops/1", nil).Code)
}

func TestOutOfRangeWritesAreRejected(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)
	before := h.do(http.MethodGet, "/v1/shops/1", nil, "Accept", codec.MediaTypeMsgpack)
	require.Equal(t, http.StatusOK, before.Code)

	for _, accept := range []string{codec.MediaTypeJSON, codec.MediaTypeMsgpack} {
		rec := h.do(http.MethodPatch, "/v1/shops/1",
			map[string]any{"vendor_gold": int64(math.MaxInt32) + 1}, "Accept", accept)
		assert.Equal(t, http.StatusBadRequest, rec.Code, accept)
	}
	s, err := h.store.GetShop(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, s.VendorGold)

	rec := h.do(http.MethodPost, "/v1/transactions", map[string]any{
		"shop_id": 1, "mod_name": "Skyrim.esm", "local_form_id": 5, "quantity": int64(5e9), "is_sell": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing was written, so the cached compact entries still serve
	after := h.do(http.MethodGet, "/v1/shops/1", nil, "Accept", codec.MediaTypeMsgpack)
	assert.Equal(t, http.StatusOK, after.Code)
	assert.Equal(t, "hit", after.Header().Get("X-Cache"))
	assert.Equal(t, before.Header().Get("ETag"), after.Header().Get("ETag"))
	ml := h.do(http.MethodGet, "/v1/shops/1/merchandise_list", nil, "Accept", codec.MediaTypeMsgpack)
	assert.Equal(t, http.StatusOK, ml.Code)
	assert.EqualValues(t, 0, h.stats.Snapshot().EncodeFailures)
}

func TestInvalidationFailureAfterCommit(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)
	require.Equal(t, "miss", h.do(http.MethodGet, "/v1/shops/1", nil).Header().Get("X-Cache"))

	h.gens.broken.Store(true)
	rec := h.do(http.MethodPatch, "/v1/shops/1", map[string]any{"description": "shields"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Positive(t, h.stats.Snapshot().InvalidateFailures)

	// the write itself committed
	s, err := h.store.GetShop(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "shields", s.Description)
}

func TestCompactRequestBody(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)
	body, err := msgpack.Marshal(map[string]any{"description": "potions"})
	require.NoError(t, err)

	rec := h.do(http.MethodPatch, "/v1/shops/1", body,
		"Content-Type", codec.MediaTypeMsgpack, "Accept", codec.MediaTypeMsgpack)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, codec.MediaTypeMsgpack, rec.Header().Get("Content-Type"))

	var s shop.Shop
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "potions", s.Description)
}

func TestDeleteShopDropsAliases(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/v1/shops/1/interior_ref_list", nil).Code)
	require.Equal(t, "hit", h.do(http.MethodGet, "/v1/shops/1/interior_ref_list", nil).Header().Get("X-Cache"))
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/v1/interior_ref_lists/1", nil).Code)

	rec := h.do(http.MethodDelete, "/v1/shops/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/v1/shops/1/interior_ref_list", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/v1/interior_ref_lists/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/v1/shops/1", nil).Code)
}

func TestStatus(t *testing.T) {
	h := newHarness(t, 0)
	h.seed(1)
	h.do(http.MethodGet, "/v1/shops/1", nil)
	h.do(http.MethodGet, "/v1/shops/1", nil)

	rec := h.do(http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON[statusBody](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.CapacityUsed)
	require.NotNil(t, body.Cache)
	assert.EqualValues(t, 1, body.Cache.Hits)
	assert.EqualValues(t, 1, body.Cache.Misses)
}

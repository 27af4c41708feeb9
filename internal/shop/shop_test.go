package shop

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/repcache"
)

func TestParseListParamsDefaults(t *testing.T) {
	p, err := ParseListParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListParams(), p)
	assert.Equal(t, "limit=10&offset=0&order_by=updated_at&order=desc", p.Canonical())
}

func TestCanonicalIgnoresSpelling(t *testing.T) {
	a, err := ParseListParams(url.Values{"order": {"DESC"}, "limit": {"10"}})
	require.NoError(t, err)
	b, err := ParseListParams(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, b.Canonical(), a.Canonical())

	c, err := ParseListParams(url.Values{"offset": {"20"}, "order_by": {"id"}, "order": {"asc"}})
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=20&order_by=id&order=asc", c.Canonical())
}

func TestParseListParamsRejects(t *testing.T) {
	for _, q := range []url.Values{
		{"limit": {"0"}},
		{"limit": {"101"}},
		{"limit": {"ten"}},
		{"offset": {"-1"}},
		{"order_by": {"name; drop table shops"}},
		{"order": {"sideways"}},
	} {
		_, err := ParseListParams(q)
		assert.ErrorIs(t, err, ErrValidation, "query %v", q)
	}
}

func TestCheckDomain(t *testing.T) {
	s := Shop{ID: 7, OwnerID: 1, VendorGold: math.MaxInt32 + 1}
	assert.NoError(t, s.CheckDomain(repcache.Descriptive))
	assert.ErrorContains(t, s.CheckDomain(repcache.Compact), "vendor_gold")

	l := MerchandiseList{ID: 1, ShopID: 1, FormList: []Merchandise{{ModName: "a"}, {ModName: "b", Price: math.MinInt32 - 1}}}
	assert.ErrorContains(t, l.CheckDomain(repcache.Compact), "form_list[1]")

	list := List[Shop]{{ID: 1}, s}
	assert.ErrorContains(t, list.CheckDomain(repcache.Compact), "[1]")
	assert.NoError(t, List[Shop]{{ID: math.MaxInt32}}.CheckDomain(repcache.Compact))
}

func TestOwnerHidesAPIKey(t *testing.T) {
	b, err := json.Marshal(Owner{ID: 1, Name: "n", ModVersion: "1"})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "api_key")
	assert.NotContains(t, string(b), "APIKey")
}

func TestApplyTransaction(t *testing.T) {
	l := MerchandiseList{FormList: []Merchandise{{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 3, Price: 10}}}

	require.NoError(t, ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 2}))
	assert.EqualValues(t, 1, l.FormList[0].Quantity)

	err := ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 2})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualValues(t, 1, l.FormList[0].Quantity)

	require.NoError(t, ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 4, IsSell: true}))
	assert.EqualValues(t, 5, l.FormList[0].Quantity)

	require.NoError(t, ApplyTransaction(&l, Transaction{ModName: "Dawnguard.esm", LocalFormID: 9, Name: "Bow", Quantity: 1, Price: 40, IsSell: true}))
	require.Len(t, l.FormList, 2)
	assert.Equal(t, "Bow", l.FormList[1].Name)

	require.NoError(t, ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 5}))
	require.Len(t, l.FormList, 1)
	assert.Equal(t, "Dawnguard.esm", l.FormList[0].ModName)

	assert.ErrorIs(t, ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 5, Quantity: 1}), ErrValidation)
}

func TestApplyTransactionStaysWithinInt32(t *testing.T) {
	l := MerchandiseList{FormList: []Merchandise{{ModName: "Skyrim.esm", LocalFormID: 15, Quantity: math.MaxInt32 - 1}}}

	require.NoError(t, ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 15, Quantity: 1, IsSell: true}))
	assert.EqualValues(t, math.MaxInt32, l.FormList[0].Quantity)

	err := ApplyTransaction(&l, Transaction{ModName: "Skyrim.esm", LocalFormID: 15, Quantity: 1, IsSell: true})
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualValues(t, math.MaxInt32, l.FormList[0].Quantity)
	require.NoError(t, l.CheckDomain(repcache.Compact))
}

func TestInvalidationSets(t *testing.T) {
	keys := InvalidationSetTransactionCreated(TransactionCreated{
		Transaction:     Transaction{ID: 3, ShopID: 7},
		MerchandiseList: MerchandiseList{ID: 11, ShopID: 7},
	})
	assert.ElementsMatch(t, []repcache.ResourceKey{
		TransactionKey(3),
		Collection(CollTransactions),
		repcache.Key(AliasTransactions, 7),
		MerchandiseListKey(11),
		Collection(CollMerchandiseLists),
		repcache.Key(AliasMerchandiseList, 7),
	}, keys)

	del := InvalidationSetShopDeleted(ShopDeleted{ShopID: 7, MerchandiseListIDs: []int64{11}})
	assert.Contains(t, del, ShopKey(7))
	assert.Contains(t, del, repcache.Key(AliasVendor, 7))
	assert.Contains(t, del, repcache.Key(AliasTransactions, 7))
	assert.Contains(t, del, MerchandiseListKey(11))
	assert.Contains(t, del, Collection(CollMerchandiseLists))
	assert.NotContains(t, del, Collection(CollVendors))
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Shop{Name: " ", OwnerID: 1}.Validate(), ErrValidation)
	assert.ErrorIs(t, Shop{Name: "s"}.Validate(), ErrValidation)
	assert.NoError(t, Shop{Name: "s", OwnerID: 1}.Validate())
	assert.ErrorIs(t, Transaction{ShopID: 1, ModName: "m"}.Validate(), ErrValidation)
	assert.ErrorIs(t, MerchandiseList{ShopID: 1, FormList: []Merchandise{{ModName: "m", Quantity: -1}}}.Validate(), ErrValidation)
}

func TestValidateRejectsWhatCompactCannotCarry(t *testing.T) {
	const over = int64(math.MaxInt32) + 1
	cases := []struct {
		name string
		rec  interface{ Validate() error }
	}{
		{"vendor gold", Shop{Name: "s", OwnerID: 1, VendorGold: over}},
		{"vendor id", Shop{Name: "s", OwnerID: 1, VendorID: over}},
		{"owner id", Shop{Name: "s", OwnerID: over}},
		{"ref form id", InteriorRefList{ShopID: 1, RefList: []InteriorRef{{ModName: "m", LocalFormID: over}}}},
		{"stock quantity", MerchandiseList{ShopID: 1, FormList: []Merchandise{{ModName: "m", Quantity: over}}}},
		{"stock price", MerchandiseList{ShopID: 1, FormList: []Merchandise{{ModName: "m", Price: over}}}},
		{"stock form type", MerchandiseList{ShopID: 1, FormList: []Merchandise{{ModName: "m", FormType: math.MinInt32 - 1}}}},
		{"vendor shop", Vendor{ShopID: over, Name: "n", Race: "r"}},
		{"sale quantity", Transaction{ShopID: 1, ModName: "m", Quantity: 5e9}},
		{"sale amount", Transaction{ShopID: 1, ModName: "m", Quantity: 1, Amount: over}},
		{"sale price", Transaction{ShopID: 1, ModName: "m", Quantity: 1, Price: over}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.rec.Validate(), ErrValidation)
		})
	}

	edge := Shop{Name: "s", OwnerID: 1, VendorGold: math.MaxInt32}
	require.NoError(t, edge.Validate())
	assert.NoError(t, edge.CheckDomain(repcache.Compact))
}

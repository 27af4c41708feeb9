package shop

import "github.com/unkn0wn-root/repcache"

// Resource kinds.
const (
	KindOwner           = "owner"
	KindShop            = "shop"
	KindInteriorRefList = "interior_ref_list"
	KindMerchandiseList = "merchandise_list"
	KindVendor          = "vendor"
	KindTransaction     = "transaction"
)

// Collection kinds back the list endpoints. They always use ID 0; list
// parameters go into the entry variant.
const (
	CollOwners           = "owners"
	CollShops            = "shops"
	CollInteriorRefLists = "interior_ref_lists"
	CollMerchandiseLists = "merchandise_lists"
	CollVendors          = "vendors"
	CollTransactions     = "transactions"
)

// Shop-scoped aliases back the /shops/{id}/... reads. ID is the shop id.
const (
	AliasInteriorRefList = "shop_interior_ref_list"
	AliasMerchandiseList = "shop_merchandise_list"
	AliasVendor          = "shop_vendor"
	AliasTransactions    = "shop_transactions"
)

// Collection returns the aggregate key behind a list endpoint.
func Collection(kind string) repcache.ResourceKey { return repcache.Key(kind, 0) }

func OwnerKey(id int64) repcache.ResourceKey           { return repcache.Key(KindOwner, id) }
func ShopKey(id int64) repcache.ResourceKey            { return repcache.Key(KindShop, id) }
func InteriorRefListKey(id int64) repcache.ResourceKey { return repcache.Key(KindInteriorRefList, id) }
func MerchandiseListKey(id int64) repcache.ResourceKey { return repcache.Key(KindMerchandiseList, id) }
func VendorKey(id int64) repcache.ResourceKey          { return repcache.Key(KindVendor, id) }
func TransactionKey(id int64) repcache.ResourceKey     { return repcache.Key(KindTransaction, id) }

// InvalidationSetOwner covers any write to owner id.
func InvalidationSetOwner(id int64) []repcache.ResourceKey {
	return []repcache.ResourceKey{OwnerKey(id), Collection(CollOwners)}
}

// InvalidationSetShop covers a shop update.
func InvalidationSetShop(id int64) []repcache.ResourceKey {
	return []repcache.ResourceKey{ShopKey(id), Collection(CollShops)}
}

// InvalidationSetShopCreated covers a new shop and the lists created with it.
func InvalidationSetShopCreated(c ShopCreated) []repcache.ResourceKey {
	id := c.Shop.ID
	return []repcache.ResourceKey{
		ShopKey(id),
		Collection(CollShops),
		InteriorRefListKey(c.InteriorRefList.ID),
		Collection(CollInteriorRefLists),
		repcache.Key(AliasInteriorRefList, id),
		MerchandiseListKey(c.MerchandiseList.ID),
		Collection(CollMerchandiseLists),
		repcache.Key(AliasMerchandiseList, id),
	}
}

// InvalidationSetShopDeleted covers a shop and every row removed with it.
func InvalidationSetShopDeleted(d ShopDeleted) []repcache.ResourceKey {
	id := d.ShopID
	keys := []repcache.ResourceKey{
		ShopKey(id),
		Collection(CollShops),
		repcache.Key(AliasInteriorRefList, id),
		repcache.Key(AliasMerchandiseList, id),
		repcache.Key(AliasVendor, id),
		repcache.Key(AliasTransactions, id),
	}
	add := func(coll string, kf func(int64) repcache.ResourceKey, ids []int64) {
		if len(ids) == 0 {
			return
		}
		for _, i := range ids {
			keys = append(keys, kf(i))
		}
		keys = append(keys, Collection(coll))
	}
	add(CollInteriorRefLists, InteriorRefListKey, d.InteriorRefListIDs)
	add(CollMerchandiseLists, MerchandiseListKey, d.MerchandiseListIDs)
	add(CollVendors, VendorKey, d.VendorIDs)
	add(CollTransactions, TransactionKey, d.TransactionIDs)
	return keys
}

func InvalidationSetInteriorRefList(l InteriorRefList) []repcache.ResourceKey {
	return []repcache.ResourceKey{
		InteriorRefListKey(l.ID),
		Collection(CollInteriorRefLists),
		repcache.Key(AliasInteriorRefList, l.ShopID),
	}
}

func InvalidationSetMerchandiseList(l MerchandiseList) []repcache.ResourceKey {
	return []repcache.ResourceKey{
		MerchandiseListKey(l.ID),
		Collection(CollMerchandiseLists),
		repcache.Key(AliasMerchandiseList, l.ShopID),
	}
}

func InvalidationSetVendor(v Vendor) []repcache.ResourceKey {
	return []repcache.ResourceKey{
		VendorKey(v.ID),
		Collection(CollVendors),
		repcache.Key(AliasVendor, v.ShopID),
	}
}

// InvalidationSetTransaction covers a deleted transaction. Deletion does not
// restore merchandise quantities.
func InvalidationSetTransaction(t Transaction) []repcache.ResourceKey {
	return []repcache.ResourceKey{
		TransactionKey(t.ID),
		Collection(CollTransactions),
		repcache.Key(AliasTransactions, t.ShopID),
	}
}

// InvalidationSetTransactionCreated also covers the merchandise list whose
// quantities the transaction changed.
func InvalidationSetTransactionCreated(c TransactionCreated) []repcache.ResourceKey {
	return append(InvalidationSetTransaction(c.Transaction), InvalidationSetMerchandiseList(c.MerchandiseList)...)
}

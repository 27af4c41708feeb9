// Package store defines the persistence the API writes through and the
// cache loaders read from. Errors are the shop sentinels: ErrNotFound for a
// missing row, ErrValidation for bad input or a missing parent, ErrConflict
// for a uniqueness clash.
package store

import (
	"context"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

type Owners interface {
	GetOwner(ctx context.Context, id int64) (shop.Owner, error)
	ListOwners(ctx context.Context, p shop.ListParams) ([]shop.Owner, error)
	CreateOwner(ctx context.Context, o shop.Owner) (shop.Owner, error)
	UpdateOwner(ctx context.Context, id int64, p shop.OwnerPatch) (shop.Owner, error)
	DeleteOwner(ctx context.Context, id int64) error
}

type Shops interface {
	GetShop(ctx context.Context, id int64) (shop.Shop, error)
	ListShops(ctx context.Context, p shop.ListParams) ([]shop.Shop, error)
	// CreateShop also creates the shop's empty interior ref list and
	// merchandise list in the same commit.
	CreateShop(ctx context.Context, s shop.Shop) (shop.ShopCreated, error)
	UpdateShop(ctx context.Context, id int64, p shop.ShopPatch) (shop.Shop, error)
	// DeleteShop removes the shop with its lists, vendor and transactions.
	DeleteShop(ctx context.Context, id int64) (shop.ShopDeleted, error)
}

type InteriorRefLists interface {
	GetInteriorRefList(ctx context.Context, id int64) (shop.InteriorRefList, error)
	ListInteriorRefLists(ctx context.Context, p shop.ListParams) ([]shop.InteriorRefList, error)
	CreateInteriorRefList(ctx context.Context, l shop.InteriorRefList) (shop.InteriorRefList, error)
	UpdateInteriorRefList(ctx context.Context, id int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error)
	DeleteInteriorRefList(ctx context.Context, id int64) (shop.InteriorRefList, error)
	InteriorRefListByShop(ctx context.Context, shopID int64) (shop.InteriorRefList, error)
	UpdateInteriorRefListByShop(ctx context.Context, shopID int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error)
}

type MerchandiseLists interface {
	GetMerchandiseList(ctx context.Context, id int64) (shop.MerchandiseList, error)
	ListMerchandiseLists(ctx context.Context, p shop.ListParams) ([]shop.MerchandiseList, error)
	CreateMerchandiseList(ctx context.Context, l shop.MerchandiseList) (shop.MerchandiseList, error)
	UpdateMerchandiseList(ctx context.Context, id int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error)
	DeleteMerchandiseList(ctx context.Context, id int64) (shop.MerchandiseList, error)
	MerchandiseListByShop(ctx context.Context, shopID int64) (shop.MerchandiseList, error)
	UpdateMerchandiseListByShop(ctx context.Context, shopID int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error)
}

type Vendors interface {
	GetVendor(ctx context.Context, id int64) (shop.Vendor, error)
	ListVendors(ctx context.Context, p shop.ListParams) ([]shop.Vendor, error)
	CreateVendor(ctx context.Context, v shop.Vendor) (shop.Vendor, error)
	UpdateVendor(ctx context.Context, id int64, p shop.VendorPatch) (shop.Vendor, error)
	DeleteVendor(ctx context.Context, id int64) (shop.Vendor, error)
	VendorByShop(ctx context.Context, shopID int64) (shop.Vendor, error)
}

type Transactions interface {
	GetTransaction(ctx context.Context, id int64) (shop.Transaction, error)
	ListTransactions(ctx context.Context, p shop.ListParams) ([]shop.Transaction, error)
	// CreateTransaction records t and applies it to the shop's merchandise
	// list in the same commit.
	CreateTransaction(ctx context.Context, t shop.Transaction) (shop.TransactionCreated, error)
	DeleteTransaction(ctx context.Context, id int64) (shop.Transaction, error)
	ListTransactionsByShop(ctx context.Context, shopID int64, p shop.ListParams) ([]shop.Transaction, error)
}

type Store interface {
	Owners
	Shops
	InteriorRefLists
	MerchandiseLists
	Vendors
	Transactions

	Ping(ctx context.Context) error
	Close()
}

// Package memstore is an in-process store.Store guarded by one mutex.
// It backs tests and STORE=memory.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/repcache/internal/shop"
	"github.com/unkn0wn-root/repcache/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	owners  table[shop.Owner]
	shops   table[shop.Shop]
	irls    table[shop.InteriorRefList]
	mls     table[shop.MerchandiseList]
	vendors table[shop.Vendor]
	txs     table[shop.Transaction]
}

type Option func(*Store)

// WithClock replaces time.Now for created/updated stamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		owners: newTable(func(o shop.Owner) stamps { return stamps{o.ID, o.CreatedAt, o.UpdatedAt} },
			func(o shop.Owner) shop.Owner {
				if o.IPAddress != nil {
					ip := *o.IPAddress
					o.IPAddress = &ip
				}
				return o
			}),
		shops: newTable(func(v shop.Shop) stamps { return stamps{v.ID, v.CreatedAt, v.UpdatedAt} }, nil),
		irls: newTable(func(l shop.InteriorRefList) stamps { return stamps{l.ID, l.CreatedAt, l.UpdatedAt} },
			func(l shop.InteriorRefList) shop.InteriorRefList {
				l.RefList = slices.Clone(l.RefList)
				return l
			}),
		mls: newTable(func(l shop.MerchandiseList) stamps { return stamps{l.ID, l.CreatedAt, l.UpdatedAt} },
			func(l shop.MerchandiseList) shop.MerchandiseList {
				l.FormList = slices.Clone(l.FormList)
				return l
			}),
		vendors: newTable(func(v shop.Vendor) stamps { return stamps{v.ID, v.CreatedAt, v.UpdatedAt} }, nil),
		txs:     newTable(func(t shop.Transaction) stamps { return stamps{t.ID, t.CreatedAt, t.UpdatedAt} }, nil),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// stamp matches the microsecond precision of timestamptz.
func (s *Store) stamp() time.Time { return s.now().UTC().Truncate(time.Microsecond) }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

// parent returns the shop a child row hangs off.
func (s *Store) parent(shopID int64) (shop.Shop, error) {
	p, err := s.shops.get(shopID)
	if err != nil {
		return shop.Shop{}, fmt.Errorf("%w: shop %d does not exist", shop.ErrValidation, shopID)
	}
	return p, nil
}

// owners

func (s *Store) GetOwner(_ context.Context, id int64) (shop.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owners.get(id)
}

func (s *Store) ListOwners(_ context.Context, p shop.ListParams) ([]shop.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owners.list(p, nil), nil
}

func (s *Store) CreateOwner(_ context.Context, o shop.Owner) (shop.Owner, error) {
	if err := o.Validate(); err != nil {
		return shop.Owner{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.APIKey == uuid.Nil {
		o.APIKey = uuid.New()
	}
	if _, dup := s.owners.find(func(x shop.Owner) bool { return x.APIKey == o.APIKey }); dup {
		return shop.Owner{}, fmt.Errorf("%w: api key already registered", shop.ErrConflict)
	}
	o.ID = s.owners.next()
	o.CreatedAt = s.stamp()
	o.UpdatedAt = o.CreatedAt
	s.owners.put(o.ID, o)
	return o, nil
}

func (s *Store) UpdateOwner(_ context.Context, id int64, p shop.OwnerPatch) (shop.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := s.owners.get(id)
	if err != nil {
		return shop.Owner{}, err
	}
	p.Apply(&o)
	if err := o.Validate(); err != nil {
		return shop.Owner{}, err
	}
	o.UpdatedAt = s.stamp()
	s.owners.put(id, o)
	return o, nil
}

func (s *Store) DeleteOwner(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owners.get(id); err != nil {
		return err
	}
	if _, ok := s.shops.find(func(x shop.Shop) bool { return x.OwnerID == id }); ok {
		return fmt.Errorf("%w: owner %d still has shops", shop.ErrValidation, id)
	}
	delete(s.owners.rows, id)
	return nil
}

// shops

func (s *Store) GetShop(_ context.Context, id int64) (shop.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shops.get(id)
}

func (s *Store) ListShops(_ context.Context, p shop.ListParams) ([]shop.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shops.list(p, nil), nil
}

func (s *Store) CreateShop(_ context.Context, v shop.Shop) (shop.ShopCreated, error) {
	if err := v.Validate(); err != nil {
		return shop.ShopCreated{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owners.get(v.OwnerID); err != nil {
		return shop.ShopCreated{}, fmt.Errorf("%w: owner %d does not exist", shop.ErrValidation, v.OwnerID)
	}
	now := s.stamp()
	v.ID = s.shops.next()
	v.CreatedAt, v.UpdatedAt = now, now
	irl := shop.InteriorRefList{ID: s.irls.next(), ShopID: v.ID, OwnerID: v.OwnerID, RefList: []shop.InteriorRef{}, CreatedAt: now, UpdatedAt: now}
	ml := shop.MerchandiseList{ID: s.mls.next(), ShopID: v.ID, OwnerID: v.OwnerID, FormList: []shop.Merchandise{}, CreatedAt: now, UpdatedAt: now}
	s.shops.put(v.ID, v)
	s.irls.put(irl.ID, irl)
	s.mls.put(ml.ID, ml)
	return shop.ShopCreated{Shop: v, InteriorRefList: irl, MerchandiseList: ml}, nil
}

func (s *Store) UpdateShop(_ context.Context, id int64, p shop.ShopPatch) (shop.Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.shops.get(id)
	if err != nil {
		return shop.Shop{}, err
	}
	p.Apply(&v)
	if err := v.Validate(); err != nil {
		return shop.Shop{}, err
	}
	v.UpdatedAt = s.stamp()
	s.shops.put(id, v)
	return v, nil
}

func (s *Store) DeleteShop(_ context.Context, id int64) (shop.ShopDeleted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.shops.get(id); err != nil {
		return shop.ShopDeleted{}, err
	}
	d := shop.ShopDeleted{ShopID: id}
	d.InteriorRefListIDs = sweep(&s.irls, func(l shop.InteriorRefList) bool { return l.ShopID == id })
	d.MerchandiseListIDs = sweep(&s.mls, func(l shop.MerchandiseList) bool { return l.ShopID == id })
	d.VendorIDs = sweep(&s.vendors, func(v shop.Vendor) bool { return v.ShopID == id })
	d.TransactionIDs = sweep(&s.txs, func(t shop.Transaction) bool { return t.ShopID == id })
	delete(s.shops.rows, id)
	return d, nil
}

// sweep deletes matching rows and returns their ids in ascending order.
func sweep[T any](t *table[T], match func(T) bool) []int64 {
	var ids []int64
	for id, v := range t.rows {
		if match(v) {
			ids = append(ids, id)
			delete(t.rows, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// interior ref lists

func (s *Store) GetInteriorRefList(_ context.Context, id int64) (shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.irls.get(id)
}

func (s *Store) ListInteriorRefLists(_ context.Context, p shop.ListParams) ([]shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.irls.list(p, nil), nil
}

func (s *Store) CreateInteriorRefList(_ context.Context, l shop.InteriorRefList) (shop.InteriorRefList, error) {
	if err := l.Validate(); err != nil {
		return shop.InteriorRefList{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.parent(l.ShopID)
	if err != nil {
		return shop.InteriorRefList{}, err
	}
	if _, dup := s.irls.find(func(x shop.InteriorRefList) bool { return x.ShopID == l.ShopID }); dup {
		return shop.InteriorRefList{}, fmt.Errorf("%w: shop %d already has an interior ref list", shop.ErrConflict, l.ShopID)
	}
	if l.RefList == nil {
		l.RefList = []shop.InteriorRef{}
	}
	l.ID = s.irls.next()
	l.OwnerID = p.OwnerID
	l.CreatedAt = s.stamp()
	l.UpdatedAt = l.CreatedAt
	s.irls.put(l.ID, l)
	return l, nil
}

func (s *Store) UpdateInteriorRefList(_ context.Context, id int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.irls.get(id)
	if err != nil {
		return shop.InteriorRefList{}, err
	}
	return s.updateInteriorRefList(l, p)
}

func (s *Store) updateInteriorRefList(l shop.InteriorRefList, p shop.InteriorRefListPatch) (shop.InteriorRefList, error) {
	p.Apply(&l)
	if err := l.Validate(); err != nil {
		return shop.InteriorRefList{}, err
	}
	if l.RefList == nil {
		l.RefList = []shop.InteriorRef{}
	}
	l.UpdatedAt = s.stamp()
	s.irls.put(l.ID, l)
	return l, nil
}

func (s *Store) DeleteInteriorRefList(_ context.Context, id int64) (shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.irls.get(id)
	if err != nil {
		return shop.InteriorRefList{}, err
	}
	delete(s.irls.rows, id)
	return l, nil
}

func (s *Store) InteriorRefListByShop(_ context.Context, shopID int64) (shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.irls.find(func(x shop.InteriorRefList) bool { return x.ShopID == shopID })
	if !ok {
		return shop.InteriorRefList{}, shop.ErrNotFound
	}
	return l, nil
}

func (s *Store) UpdateInteriorRefListByShop(_ context.Context, shopID int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.irls.find(func(x shop.InteriorRefList) bool { return x.ShopID == shopID })
	if !ok {
		return shop.InteriorRefList{}, shop.ErrNotFound
	}
	return s.updateInteriorRefList(l, p)
}

// merchandise lists

func (s *Store) GetMerchandiseList(_ context.Context, id int64) (shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mls.get(id)
}

func (s *Store) ListMerchandiseLists(_ context.Context, p shop.ListParams) ([]shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mls.list(p, nil), nil
}

func (s *Store) CreateMerchandiseList(_ context.Context, l shop.MerchandiseList) (shop.MerchandiseList, error) {
	if err := l.Validate(); err != nil {
		return shop.MerchandiseList{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.parent(l.ShopID)
	if err != nil {
		return shop.MerchandiseList{}, err
	}
	if _, dup := s.mls.find(func(x shop.MerchandiseList) bool { return x.ShopID == l.ShopID }); dup {
		return shop.MerchandiseList{}, fmt.Errorf("%w: shop %d already has a merchandise list", shop.ErrConflict, l.ShopID)
	}
	if l.FormList == nil {
		l.FormList = []shop.Merchandise{}
	}
	l.ID = s.mls.next()
	l.OwnerID = p.OwnerID
	l.CreatedAt = s.stamp()
	l.UpdatedAt = l.CreatedAt
	s.mls.put(l.ID, l)
	return l, nil
}

func (s *Store) UpdateMerchandiseList(_ context.Context, id int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.mls.get(id)
	if err != nil {
		return shop.MerchandiseList{}, err
	}
	return s.updateMerchandiseList(l, p)
}

func (s *Store) updateMerchandiseList(l shop.MerchandiseList, p shop.MerchandiseListPatch) (shop.MerchandiseList, error) {
	p.Apply(&l)
	if err := l.Validate(); err != nil {
		return shop.MerchandiseList{}, err
	}
	if l.FormList == nil {
		l.FormList = []shop.Merchandise{}
	}
	l.UpdatedAt = s.stamp()
	s.mls.put(l.ID, l)
	return l, nil
}

func (s *Store) DeleteMerchandiseList(_ context.Context, id int64) (shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.mls.get(id)
	if err != nil {
		return shop.MerchandiseList{}, err
	}
	delete(s.mls.rows, id)
	return l, nil
}

func (s *Store) MerchandiseListByShop(_ context.Context, shopID int64) (shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.mls.find(func(x shop.MerchandiseList) bool { return x.ShopID == shopID })
	if !ok {
		return shop.MerchandiseList{}, shop.ErrNotFound
	}
	return l, nil
}

func (s *Store) UpdateMerchandiseListByShop(_ context.Context, shopID int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.mls.find(func(x shop.MerchandiseList) bool { return x.ShopID == shopID })
	if !ok {
		return shop.MerchandiseList{}, shop.ErrNotFound
	}
	return s.updateMerchandiseList(l, p)
}

// vendors

func (s *Store) GetVendor(_ context.Context, id int64) (shop.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vendors.get(id)
}

func (s *Store) ListVendors(_ context.Context, p shop.ListParams) ([]shop.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vendors.list(p, nil), nil
}

func (s *Store) CreateVendor(_ context.Context, v shop.Vendor) (shop.Vendor, error) {
	if err := v.Validate(); err != nil {
		return shop.Vendor{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.parent(v.ShopID)
	if err != nil {
		return shop.Vendor{}, err
	}
	if _, dup := s.vendors.find(func(x shop.Vendor) bool { return x.ShopID == v.ShopID }); dup {
		return shop.Vendor{}, fmt.Errorf("%w: shop %d already has a vendor", shop.ErrConflict, v.ShopID)
	}
	v.ID = s.vendors.next()
	v.OwnerID = p.OwnerID
	v.CreatedAt = s.stamp()
	v.UpdatedAt = v.CreatedAt
	s.vendors.put(v.ID, v)
	return v, nil
}

func (s *Store) UpdateVendor(_ context.Context, id int64, p shop.VendorPatch) (shop.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.vendors.get(id)
	if err != nil {
		return shop.Vendor{}, err
	}
	p.Apply(&v)
	if err := v.Validate(); err != nil {
		return shop.Vendor{}, err
	}
	v.UpdatedAt = s.stamp()
	s.vendors.put(id, v)
	return v, nil
}

func (s *Store) DeleteVendor(_ context.Context, id int64) (shop.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.vendors.get(id)
	if err != nil {
		return shop.Vendor{}, err
	}
	delete(s.vendors.rows, id)
	return v, nil
}

func (s *Store) VendorByShop(_ context.Context, shopID int64) (shop.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendors.find(func(x shop.Vendor) bool { return x.ShopID == shopID })
	if !ok {
		return shop.Vendor{}, shop.ErrNotFound
	}
	return v, nil
}

// transactions

func (s *Store) GetTransaction(_ context.Context, id int64) (shop.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.get(id)
}

func (s *Store) ListTransactions(_ context.Context, p shop.ListParams) ([]shop.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs.list(p, nil), nil
}

func (s *Store) CreateTransaction(_ context.Context, t shop.Transaction) (shop.TransactionCreated, error) {
	if err := t.Validate(); err != nil {
		return shop.TransactionCreated{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.parent(t.ShopID)
	if err != nil {
		return shop.TransactionCreated{}, err
	}
	ml, ok := s.mls.find(func(x shop.MerchandiseList) bool { return x.ShopID == t.ShopID })
	if !ok {
		return shop.TransactionCreated{}, fmt.Errorf("%w: shop %d has no merchandise list", shop.ErrValidation, t.ShopID)
	}
	if err := shop.ApplyTransaction(&ml, t); err != nil {
		return shop.TransactionCreated{}, err
	}
	now := s.stamp()
	ml.UpdatedAt = now
	t.ID = s.txs.next()
	t.OwnerID = p.OwnerID
	t.CreatedAt, t.UpdatedAt = now, now
	s.mls.put(ml.ID, ml)
	s.txs.put(t.ID, t)
	return shop.TransactionCreated{Transaction: t, MerchandiseList: ml}, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) (shop.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.txs.get(id)
	if err != nil {
		return shop.Transaction{}, err
	}
	delete(s.txs.rows, id)
	return t, nil
}

func (s *Store) ListTransactionsByShop(_ context.Context, shopID int64, p shop.ListParams) ([]shop.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.shops.get(shopID); err != nil {
		return nil, err
	}
	return s.txs.list(p, func(t shop.Transaction) bool { return t.ShopID == shopID }), nil
}

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/internal/shop"
)

type keySet = []repcache.ResourceKey

func (s *Server) routes(r chi.Router) {
	st := s.store
	r.Get("/status", s.status)

	r.Route("/owners", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollOwners, st.ListOwners))
		r.With(withClientAddr).Post("/", create(s, func(ctx context.Context, in shop.Owner) (any, string, keySet, error) {
			if in.IPAddress == nil {
				in.IPAddress = clientAddr(ctx)
			}
			o, err := st.CreateOwner(ctx, in)
			return o, location(shop.CollOwners, o.ID), shop.InvalidationSetOwner(o.ID), err
		}))
		r.Get("/{id}", getByID(s, shop.KindOwner, st.GetOwner))
		r.Patch("/{id}", update(s, func(ctx context.Context, id int64, p shop.OwnerPatch) (any, keySet, error) {
			o, err := st.UpdateOwner(ctx, id, p)
			return o, shop.InvalidationSetOwner(id), err
		}))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			return shop.InvalidationSetOwner(id), st.DeleteOwner(ctx, id)
		}))
	})

	r.Route("/shops", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollShops, st.ListShops))
		r.Post("/", create(s, func(ctx context.Context, in shop.Shop) (any, string, keySet, error) {
			c, err := st.CreateShop(ctx, in)
			return c.Shop, location(shop.CollShops, c.Shop.ID), shop.InvalidationSetShopCreated(c), err
		}))
		r.Get("/{id}", getByID(s, shop.KindShop, st.GetShop))
		r.Patch("/{id}", update(s, func(ctx context.Context, id int64, p shop.ShopPatch) (any, keySet, error) {
			v, err := st.UpdateShop(ctx, id, p)
			return v, shop.InvalidationSetShop(id), err
		}))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			d, err := st.DeleteShop(ctx, id)
			return shop.InvalidationSetShopDeleted(d), err
		}))

		r.Get("/{id}/interior_ref_list", getByID(s, shop.AliasInteriorRefList, st.InteriorRefListByShop))
		r.Patch("/{id}/interior_ref_list", update(s, func(ctx context.Context, id int64, p shop.InteriorRefListPatch) (any, keySet, error) {
			l, err := st.UpdateInteriorRefListByShop(ctx, id, p)
			return l, shop.InvalidationSetInteriorRefList(l), err
		}))
		r.Get("/{id}/merchandise_list", getByID(s, shop.AliasMerchandiseList, st.MerchandiseListByShop))
		r.Patch("/{id}/merchandise_list", update(s, func(ctx context.Context, id int64, p shop.MerchandiseListPatch) (any, keySet, error) {
			l, err := st.UpdateMerchandiseListByShop(ctx, id, p)
			return l, shop.InvalidationSetMerchandiseList(l), err
		}))
		r.Get("/{id}/vendor", getByID(s, shop.AliasVendor, st.VendorByShop))
		r.Get("/{id}/transactions", s.shopTransactions)
	})

	r.Route("/interior_ref_lists", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollInteriorRefLists, st.ListInteriorRefLists))
		r.Post("/", create(s, func(ctx context.Context, in shop.InteriorRefList) (any, string, keySet, error) {
			l, err := st.CreateInteriorRefList(ctx, in)
			return l, location(shop.CollInteriorRefLists, l.ID), shop.InvalidationSetInteriorRefList(l), err
		}))
		r.Get("/{id}", getByID(s, shop.KindInteriorRefList, st.GetInteriorRefList))
		r.Patch("/{id}", update(s, func(ctx context.Context, id int64, p shop.InteriorRefListPatch) (any, keySet, error) {
			l, err := st.UpdateInteriorRefList(ctx, id, p)
			return l, shop.InvalidationSetInteriorRefList(l), err
		}))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			l, err := st.DeleteInteriorRefList(ctx, id)
			return shop.InvalidationSetInteriorRefList(l), err
		}))
	})

	r.Route("/merchandise_lists", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollMerchandiseLists, st.ListMerchandiseLists))
		r.Post("/", create(s, func(ctx context.Context, in shop.MerchandiseList) (any, string, keySet, error) {
			l, err := st.CreateMerchandiseList(ctx, in)
			return l, location(shop.CollMerchandiseLists, l.ID), shop.InvalidationSetMerchandiseList(l), err
		}))
		r.Get("/{id}", getByID(s, shop.KindMerchandiseList, st.GetMerchandiseList))
		r.Patch("/{id}", update(s, func(ctx context.Context, id int64, p shop.MerchandiseListPatch) (any, keySet, error) {
			l, err := st.UpdateMerchandiseList(ctx, id, p)
			return l, shop.InvalidationSetMerchandiseList(l), err
		}))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			l, err := st.DeleteMerchandiseList(ctx, id)
			return shop.InvalidationSetMerchandiseList(l), err
		}))
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollVendors, st.ListVendors))
		r.Post("/", create(s, func(ctx context.Context, in shop.Vendor) (any, string, keySet, error) {
			v, err := st.CreateVendor(ctx, in)
			return v, location(shop.CollVendors, v.ID), shop.InvalidationSetVendor(v), err
		}))
		r.Get("/{id}", getByID(s, shop.KindVendor, st.GetVendor))
		r.Patch("/{id}", update(s, func(ctx context.Context, id int64, p shop.VendorPatch) (any, keySet, error) {
			v, err := st.UpdateVendor(ctx, id, p)
			return v, shop.InvalidationSetVendor(v), err
		}))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			v, err := st.DeleteVendor(ctx, id)
			return shop.InvalidationSetVendor(v), err
		}))
	})

	r.Route("/transactions", func(r chi.Router) {
		r.Get("/", listAll(s, shop.CollTransactions, st.ListTransactions))
		r.Post("/", create(s, func(ctx context.Context, in shop.Transaction) (any, string, keySet, error) {
			c, err := st.CreateTransaction(ctx, in)
			return c.Transaction, location(shop.CollTransactions, c.Transaction.ID), shop.InvalidationSetTransactionCreated(c), err
		}))
		r.Get("/{id}", getByID(s, shop.KindTransaction, st.GetTransaction))
		r.Delete("/{id}", remove(s, func(ctx context.Context, id int64) (keySet, error) {
			t, err := st.DeleteTransaction(ctx, id)
			return shop.InvalidationSetTransaction(t), err
		}))
	})
}

// shopTransactions lists one shop's transactions under the shop alias key.
func (s *Server) shopTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.problem(w, r, err)
		return
	}
	p, err := shop.ParseListParams(r.URL.Query())
	if err != nil {
		s.problem(w, r, err)
		return
	}
	load := page(func(ctx context.Context, p shop.ListParams) ([]shop.Transaction, error) {
		return s.store.ListTransactionsByShop(ctx, id, p)
	}, p)
	s.serve(w, r, repcache.Key(shop.AliasTransactions, id), p.Canonical(), load)
}

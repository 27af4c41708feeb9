package postgres

import (
	"encoding/json"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

var owners = table[shop.Owner]{
	name: "owners",
	cols: []string{"id", "name", "api_key", "ip_address", "mod_version", "created_at", "updated_at"},
	scan: func(r row) (o shop.Owner, err error) {
		err = r.Scan(&o.ID, &o.Name, &o.APIKey, &o.IPAddress, &o.ModVersion, &o.CreatedAt, &o.UpdatedAt)
		return o, err
	},
	values: func(o shop.Owner) (map[string]any, error) {
		return map[string]any{
			"name":        o.Name,
			"api_key":     o.APIKey,
			"ip_address":  o.IPAddress,
			"mod_version": o.ModVersion,
		}, nil
	},
}

var shops = table[shop.Shop]{
	name: "shops",
	cols: []string{"id", "name", "owner_id", "description", "is_not_sell_buy", "sell_buy_list_id",
		"vendor_id", "vendor_gold", "created_at", "updated_at"},
	scan: func(r row) (v shop.Shop, err error) {
		err = r.Scan(&v.ID, &v.Name, &v.OwnerID, &v.Description, &v.IsNotSellBuy, &v.SellBuyListID,
			&v.VendorID, &v.VendorGold, &v.CreatedAt, &v.UpdatedAt)
		return v, err
	},
	values: func(v shop.Shop) (map[string]any, error) {
		return map[string]any{
			"name":             v.Name,
			"owner_id":         v.OwnerID,
			"description":      v.Description,
			"is_not_sell_buy":  v.IsNotSellBuy,
			"sell_buy_list_id": v.SellBuyListID,
			"vendor_id":        v.VendorID,
			"vendor_gold":      v.VendorGold,
		}, nil
	},
}

// jsonb encodes a list column; nil becomes [].
func jsonb[E any](v []E) (string, error) {
	if v == nil {
		v = []E{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

var interiorRefLists = table[shop.InteriorRefList]{
	name: "interior_ref_lists",
	cols: []string{"id", "shop_id", "owner_id", "ref_list", "created_at", "updated_at"},
	scan: func(r row) (l shop.InteriorRefList, err error) {
		err = r.Scan(&l.ID, &l.ShopID, &l.OwnerID, &l.RefList, &l.CreatedAt, &l.UpdatedAt)
		return l, err
	},
	values: func(l shop.InteriorRefList) (map[string]any, error) {
		refs, err := jsonb(l.RefList)
		if err != nil {
			return nil, err
		}
		return map[string]any{"shop_id": l.ShopID, "owner_id": l.OwnerID, "ref_list": refs}, nil
	},
}

var merchandiseLists = table[shop.MerchandiseList]{
	name: "merchandise_lists",
	cols: []string{"id", "shop_id", "owner_id", "form_list", "created_at", "updated_at"},
	scan: func(r row) (l shop.MerchandiseList, err error) {
		err = r.Scan(&l.ID, &l.ShopID, &l.OwnerID, &l.FormList, &l.CreatedAt, &l.UpdatedAt)
		return l, err
	},
	values: func(l shop.MerchandiseList) (map[string]any, error) {
		forms, err := jsonb(l.FormList)
		if err != nil {
			return nil, err
		}
		return map[string]any{"shop_id": l.ShopID, "owner_id": l.OwnerID, "form_list": forms}, nil
	},
}

var vendors = table[shop.Vendor]{
	name: "vendors",
	cols: []string{"id", "shop_id", "owner_id", "name", "race", "female", "created_at", "updated_at"},
	scan: func(r row) (v shop.Vendor, err error) {
		err = r.Scan(&v.ID, &v.ShopID, &v.OwnerID, &v.Name, &v.Race, &v.Female, &v.CreatedAt, &v.UpdatedAt)
		return v, err
	},
	values: func(v shop.Vendor) (map[string]any, error) {
		return map[string]any{
			"shop_id":  v.ShopID,
			"owner_id": v.OwnerID,
			"name":     v.Name,
			"race":     v.Race,
			"female":   v.Female,
		}, nil
	},
}

var transactions = table[shop.Transaction]{
	name: "transactions",
	cols: []string{"id", "shop_id", "owner_id", "mod_name", "local_form_id", "name", "form_type",
		"is_food", "price", "is_sell", "quantity", "amount", "created_at", "updated_at"},
	scan: func(r row) (t shop.Transaction, err error) {
		err = r.Scan(&t.ID, &t.ShopID, &t.OwnerID, &t.ModName, &t.LocalFormID, &t.Name, &t.FormType,
			&t.IsFood, &t.Price, &t.IsSell, &t.Quantity, &t.Amount, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
	values: func(t shop.Transaction) (map[string]any, error) {
		return map[string]any{
			"shop_id":       t.ShopID,
			"owner_id":      t.OwnerID,
			"mod_name":      t.ModName,
			"local_form_id": t.LocalFormID,
			"name":          t.Name,
			"form_type":     t.FormType,
			"is_food":       t.IsFood,
			"price":         t.Price,
			"is_sell":       t.IsSell,
			"quantity":      t.Quantity,
			"amount":        t.Amount,
		}, nil
	},
}

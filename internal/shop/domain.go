package shop

import (
	"fmt"
	"math"

	"github.com/unkn0wn-root/repcache"
)

// The compact form declares every integer as a signed 32-bit value.

type field struct {
	name string
	v    int64
}

func fits32(kind repcache.RepresentationKind, fs ...field) error {
	if kind != repcache.Compact {
		return nil
	}
	for _, f := range fs {
		if f.v < math.MinInt32 || f.v > math.MaxInt32 {
			return fmt.Errorf("%s=%d does not fit int32", f.name, f.v)
		}
	}
	return nil
}

func (o Owner) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind, field{"id", o.ID})
}

func (s Shop) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind,
		field{"id", s.ID},
		field{"owner_id", s.OwnerID},
		field{"sell_buy_list_id", s.SellBuyListID},
		field{"vendor_id", s.VendorID},
		field{"vendor_gold", s.VendorGold},
	)
}

func (r InteriorRef) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind, field{"local_form_id", r.LocalFormID})
}

func (l InteriorRefList) CheckDomain(kind repcache.RepresentationKind) error {
	if err := fits32(kind, field{"id", l.ID}, field{"shop_id", l.ShopID}, field{"owner_id", l.OwnerID}); err != nil {
		return err
	}
	for i, r := range l.RefList {
		if err := r.CheckDomain(kind); err != nil {
			return fmt.Errorf("ref_list[%d]: %w", i, err)
		}
	}
	return nil
}

func (m Merchandise) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind,
		field{"local_form_id", m.LocalFormID},
		field{"quantity", m.Quantity},
		field{"form_type", m.FormType},
		field{"price", m.Price},
	)
}

func (l MerchandiseList) CheckDomain(kind repcache.RepresentationKind) error {
	if err := fits32(kind, field{"id", l.ID}, field{"shop_id", l.ShopID}, field{"owner_id", l.OwnerID}); err != nil {
		return err
	}
	for i, m := range l.FormList {
		if err := m.CheckDomain(kind); err != nil {
			return fmt.Errorf("form_list[%d]: %w", i, err)
		}
	}
	return nil
}

func (v Vendor) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind, field{"id", v.ID}, field{"shop_id", v.ShopID}, field{"owner_id", v.OwnerID})
}

func (t Transaction) CheckDomain(kind repcache.RepresentationKind) error {
	return fits32(kind,
		field{"id", t.ID},
		field{"shop_id", t.ShopID},
		field{"owner_id", t.OwnerID},
		field{"local_form_id", t.LocalFormID},
		field{"form_type", t.FormType},
		field{"price", t.Price},
		field{"quantity", t.Quantity},
		field{"amount", t.Amount},
	)
}

// List is a page of records. It encodes as a plain array.
type List[T repcache.DomainChecker] []T

func (l List[T]) CheckDomain(kind repcache.RepresentationKind) error {
	for i, v := range l {
		if err := v.CheckDomain(kind); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

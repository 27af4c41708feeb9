package shop

import (
	"fmt"
	"math"
	"strings"
)

const maxName = 255

// within32 rejects values the compact form cannot carry, so a stored record
// always encodes in both representations.
func within32(fs ...field) error {
	for _, f := range fs {
		if f.v < math.MinInt32 || f.v > math.MaxInt32 {
			return invalid("%s=%d is out of range [%d, %d]", f.name, f.v, math.MinInt32, math.MaxInt32)
		}
	}
	return nil
}

func checkName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid("%s is required", field)
	}
	if len(v) > maxName {
		return invalid("%s is longer than %d bytes", field, maxName)
	}
	return nil
}

func (o Owner) Validate() error {
	if err := checkName("name", o.Name); err != nil {
		return err
	}
	return checkName("mod_version", o.ModVersion)
}

func (s Shop) Validate() error {
	if err := checkName("name", s.Name); err != nil {
		return err
	}
	if s.OwnerID <= 0 {
		return invalid("owner_id is required")
	}
	if s.VendorGold < 0 {
		return invalid("vendor_gold must not be negative")
	}
	return within32(
		field{"owner_id", s.OwnerID},
		field{"sell_buy_list_id", s.SellBuyListID},
		field{"vendor_id", s.VendorID},
		field{"vendor_gold", s.VendorGold},
	)
}

func (l InteriorRefList) Validate() error {
	if l.ShopID <= 0 {
		return invalid("shop_id is required")
	}
	if err := within32(field{"shop_id", l.ShopID}); err != nil {
		return err
	}
	for i, r := range l.RefList {
		if r.ModName == "" {
			return invalid("ref_list[%d].mod_name is required", i)
		}
		if err := within32(field{fmt.Sprintf("ref_list[%d].local_form_id", i), r.LocalFormID}); err != nil {
			return err
		}
	}
	return nil
}

func (l MerchandiseList) Validate() error {
	if l.ShopID <= 0 {
		return invalid("shop_id is required")
	}
	if err := within32(field{"shop_id", l.ShopID}); err != nil {
		return err
	}
	for i, m := range l.FormList {
		if m.ModName == "" {
			return invalid("form_list[%d].mod_name is required", i)
		}
		if m.Quantity < 0 {
			return invalid("form_list[%d].quantity must not be negative", i)
		}
		if m.Price < 0 {
			return invalid("form_list[%d].price must not be negative", i)
		}
		at := fmt.Sprintf("form_list[%d].", i)
		if err := within32(
			field{at + "local_form_id", m.LocalFormID},
			field{at + "quantity", m.Quantity},
			field{at + "form_type", m.FormType},
			field{at + "price", m.Price},
		); err != nil {
			return err
		}
	}
	return nil
}

func (v Vendor) Validate() error {
	if v.ShopID <= 0 {
		return invalid("shop_id is required")
	}
	if err := within32(field{"shop_id", v.ShopID}); err != nil {
		return err
	}
	if err := checkName("name", v.Name); err != nil {
		return err
	}
	return checkName("race", v.Race)
}

func (t Transaction) Validate() error {
	if t.ShopID <= 0 {
		return invalid("shop_id is required")
	}
	if t.ModName == "" {
		return invalid("mod_name is required")
	}
	if t.Quantity <= 0 {
		return invalid("quantity must be positive")
	}
	if t.Amount < 0 {
		return invalid("amount must not be negative")
	}
	return within32(
		field{"shop_id", t.ShopID},
		field{"local_form_id", t.LocalFormID},
		field{"form_type", t.FormType},
		field{"price", t.Price},
		field{"quantity", t.Quantity},
		field{"amount", t.Amount},
	)
}

// ApplyTransaction adjusts l for t. A sale to the shop adds stock, creating
// the item when it is new; a purchase removes stock and drops the item when
// none is left. Buying more than the shop holds, or stocking past the int32
// range, fails with ErrValidation.
func ApplyTransaction(l *MerchandiseList, t Transaction) error {
	i := -1
	for j, m := range l.FormList {
		if m.ModName == t.ModName && m.LocalFormID == t.LocalFormID {
			i = j
			break
		}
	}
	if t.IsSell {
		if i < 0 {
			l.FormList = append(l.FormList, Merchandise{
				ModName:     t.ModName,
				LocalFormID: t.LocalFormID,
				Name:        t.Name,
				Quantity:    t.Quantity,
				FormType:    t.FormType,
				IsFood:      t.IsFood,
				Price:       t.Price,
			})
			return nil
		}
		total := l.FormList[i].Quantity + t.Quantity
		if total > math.MaxInt32 {
			return invalid("shop would hold %d of %s:%d, more than %d",
				total, t.ModName, t.LocalFormID, math.MaxInt32)
		}
		l.FormList[i].Quantity = total
		return nil
	}
	if i < 0 {
		return invalid("shop has no %s:%d in stock", t.ModName, t.LocalFormID)
	}
	left := l.FormList[i].Quantity - t.Quantity
	switch {
	case left < 0:
		return invalid("shop holds %d of %s:%d, cannot sell %d",
			l.FormList[i].Quantity, t.ModName, t.LocalFormID, t.Quantity)
	case left == 0:
		l.FormList = append(l.FormList[:i:i], l.FormList[i+1:]...)
	default:
		l.FormList[i].Quantity = left
	}
	return nil
}

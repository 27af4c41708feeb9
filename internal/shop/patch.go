package shop

// Patches carry only the fields a client sent. msgpack tags mirror the JSON
// names so compact clients send keyed maps.

type OwnerPatch struct {
	Name       *string `json:"name,omitempty" msgpack:"name,omitempty"`
	IPAddress  *string `json:"ip_address,omitempty" msgpack:"ip_address,omitempty"`
	ModVersion *string `json:"mod_version,omitempty" msgpack:"mod_version,omitempty"`
}

func (p OwnerPatch) Apply(o *Owner) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.IPAddress != nil {
		o.IPAddress = p.IPAddress
	}
	if p.ModVersion != nil {
		o.ModVersion = *p.ModVersion
	}
}

type ShopPatch struct {
	Name          *string `json:"name,omitempty" msgpack:"name,omitempty"`
	Description   *string `json:"description,omitempty" msgpack:"description,omitempty"`
	IsNotSellBuy  *bool   `json:"is_not_sell_buy,omitempty" msgpack:"is_not_sell_buy,omitempty"`
	SellBuyListID *int64  `json:"sell_buy_list_id,omitempty" msgpack:"sell_buy_list_id,omitempty"`
	VendorID      *int64  `json:"vendor_id,omitempty" msgpack:"vendor_id,omitempty"`
	VendorGold    *int64  `json:"vendor_gold,omitempty" msgpack:"vendor_gold,omitempty"`
}

func (p ShopPatch) Apply(s *Shop) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.IsNotSellBuy != nil {
		s.IsNotSellBuy = *p.IsNotSellBuy
	}
	if p.SellBuyListID != nil {
		s.SellBuyListID = *p.SellBuyListID
	}
	if p.VendorID != nil {
		s.VendorID = *p.VendorID
	}
	if p.VendorGold != nil {
		s.VendorGold = *p.VendorGold
	}
}

type InteriorRefListPatch struct {
	RefList *[]InteriorRef `json:"ref_list,omitempty" msgpack:"ref_list,omitempty"`
}

func (p InteriorRefListPatch) Apply(l *InteriorRefList) {
	if p.RefList != nil {
		l.RefList = *p.RefList
	}
}

type MerchandiseListPatch struct {
	FormList *[]Merchandise `json:"form_list,omitempty" msgpack:"form_list,omitempty"`
}

func (p MerchandiseListPatch) Apply(l *MerchandiseList) {
	if p.FormList != nil {
		l.FormList = *p.FormList
	}
}

type VendorPatch struct {
	Name   *string `json:"name,omitempty" msgpack:"name,omitempty"`
	Race   *string `json:"race,omitempty" msgpack:"race,omitempty"`
	Female *bool   `json:"female,omitempty" msgpack:"female,omitempty"`
}

func (p VendorPatch) Apply(v *Vendor) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Race != nil {
		v.Race = *p.Race
	}
	if p.Female != nil {
		v.Female = *p.Female
	}
}

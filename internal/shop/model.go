// Package shop holds the bazaar records, their patches, list parameters and
// the cache keys each write invalidates.
//
// Every record encodes as a JSON object (descriptive) and as a positional
// array (compact). The compact form declares 32-bit signed integers; values
// outside that range fail CheckDomain.
package shop

import (
	"time"

	"github.com/google/uuid"
)

type Owner struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	APIKey     uuid.UUID `json:"-" msgpack:"-" cbor:"-"`
	IPAddress  *string   `json:"ip_address"`
	ModVersion string    `json:"mod_version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Shop struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	OwnerID       int64     `json:"owner_id"`
	Description   string    `json:"description"`
	IsNotSellBuy  bool      `json:"is_not_sell_buy"`
	SellBuyListID int64     `json:"sell_buy_list_id"`
	VendorID      int64     `json:"vendor_id"`
	VendorGold    int64     `json:"vendor_gold"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InteriorRef places one object inside a shop interior.
type InteriorRef struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ModName     string  `json:"mod_name"`
	LocalFormID int64   `json:"local_form_id"`
	PositionX   float64 `json:"position_x"`
	PositionY   float64 `json:"position_y"`
	PositionZ   float64 `json:"position_z"`
	AngleX      float64 `json:"angle_x"`
	AngleY      float64 `json:"angle_y"`
	AngleZ      float64 `json:"angle_z"`
	Scale       float64 `json:"scale"`
}

type InteriorRefList struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID        int64         `json:"id"`
	ShopID    int64         `json:"shop_id"`
	OwnerID   int64         `json:"owner_id"`
	RefList   []InteriorRef `json:"ref_list"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Merchandise is one stocked item; (ModName, LocalFormID) identifies it.
type Merchandise struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ModName     string `json:"mod_name"`
	LocalFormID int64  `json:"local_form_id"`
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	FormType    int64  `json:"form_type"`
	IsFood      bool   `json:"is_food"`
	Price       int64  `json:"price"`
}

type MerchandiseList struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID        int64         `json:"id"`
	ShopID    int64         `json:"shop_id"`
	OwnerID   int64         `json:"owner_id"`
	FormList  []Merchandise `json:"form_list"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Vendor is the NPC that runs a shop. A shop has at most one.
type Vendor struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID        int64     `json:"id"`
	ShopID    int64     `json:"shop_id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Race      string    `json:"race"`
	Female    bool      `json:"female"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction records a sale between a shop and a player. IsSell means the
// player sold to the shop, which adds Quantity to the shop's merchandise;
// otherwise the player bought and the shop loses Quantity.
type Transaction struct {
	_msgpack struct{} `msgpack:",as_array"`
	_        struct{} `cbor:",toarray"`

	ID          int64     `json:"id"`
	ShopID      int64     `json:"shop_id"`
	OwnerID     int64     `json:"owner_id"`
	ModName     string    `json:"mod_name"`
	LocalFormID int64     `json:"local_form_id"`
	Name        string    `json:"name"`
	FormType    int64     `json:"form_type"`
	IsFood      bool      `json:"is_food"`
	Price       int64     `json:"price"`
	IsSell      bool      `json:"is_sell"`
	Quantity    int64     `json:"quantity"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShopCreated is a new shop with the empty lists created alongside it.
type ShopCreated struct {
	Shop            Shop
	InteriorRefList InteriorRefList
	MerchandiseList MerchandiseList
}

// ShopDeleted names the rows removed together with a shop.
type ShopDeleted struct {
	ShopID             int64
	InteriorRefListIDs []int64
	MerchandiseListIDs []int64
	VendorIDs          []int64
	TransactionIDs     []int64
}

// TransactionCreated is a new transaction and the merchandise list it changed.
type TransactionCreated struct {
	Transaction     Transaction
	MerchandiseList MerchandiseList
}

// Package orderrepo stores the order graph in PostgreSQL through GORM.
//
// Tables: members, deliveries, items (a single table for every item kind,
// told apart by dtype), orders and order_items. Entity finds go through GORM;
// joined reads and projections are hand-written SQL so that every store call
// stays a single round trip.
package orderrepo

import (
	"time"

	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
)

// AddressDTO is the address columns embedded in members and deliveries.
type AddressDTO struct {
	City    string
	Street  string
	Zipcode string
}

type MemberDTO struct {
	ID      int64 `gorm:"primaryKey"`
	Name    string
	Address AddressDTO `gorm:"embedded"`
}

func (MemberDTO) TableName() string {
	return "members"
}

type DeliveryDTO struct {
	ID      int64      `gorm:"primaryKey"`
	Address AddressDTO `gorm:"embedded"`
	Status  string
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// ItemDTO maps every item kind to one table. Columns of other kinds stay empty.
type ItemDTO struct {
	ID            int64  `gorm:"primaryKey"`
	DType         string `gorm:"column:dtype;size:1;not null"`
	Name          string
	Price         int
	StockQuantity int
	Author        string
	ISBN          string `gorm:"column:isbn"`
	Artist        string
	Etc           string
	Director      string
	Actor         string
}

func (ItemDTO) TableName() string {
	return "items"
}

type OrderDTO struct {
	ID         int64       `gorm:"primaryKey"`
	MemberID   int64       `gorm:"index;not null"`
	Member     MemberDTO   `gorm:"foreignKey:MemberID"`
	DeliveryID int64       `gorm:"uniqueIndex;not null"`
	Delivery   DeliveryDTO `gorm:"foreignKey:DeliveryID"`
	OrderDate  time.Time
	Status     int
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	ID         int64    `gorm:"primaryKey"`
	OrderID    int64    `gorm:"index;not null"`
	Order      OrderDTO `gorm:"foreignKey:OrderID"`
	ItemID     int64    `gorm:"index;not null"`
	Item       ItemDTO  `gorm:"foreignKey:ItemID"`
	OrderPrice int
	Count      int
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// Tables lists every schema DTO in dependency order.
func Tables() []any {
	return []any{&MemberDTO{}, &DeliveryDTO{}, &ItemDTO{}, &OrderDTO{}, &OrderItemDTO{}}
}

func addressFromDomain(a kernel.Address) AddressDTO {
	return AddressDTO{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

func (a AddressDTO) toDomain() (kernel.Address, error) {
	return kernel.NewAddress(a.City, a.Street, a.Zipcode)
}

func MemberFromDomain(m member.Member) MemberDTO {
	return MemberDTO{ID: m.ID(), Name: m.Name(), Address: addressFromDomain(m.Address())}
}

func (dto MemberDTO) toDomain() (member.Member, error) {
	address, err := dto.Address.toDomain()
	if err != nil {
		return member.Member{}, err
	}
	return member.NewMember(dto.ID, dto.Name, address)
}

func DeliveryFromDomain(d delivery.Delivery) DeliveryDTO {
	return DeliveryDTO{ID: d.ID(), Address: addressFromDomain(d.Address()), Status: d.Status().String()}
}

func (dto DeliveryDTO) toDomain() (delivery.Delivery, error) {
	address, err := dto.Address.toDomain()
	if err != nil {
		return delivery.Delivery{}, err
	}
	return delivery.NewDelivery(dto.ID, address, delivery.Status(dto.Status))
}

func ItemFromDomain(it item.Item) ItemDTO {
	details := it.Details()
	return ItemDTO{
		ID:            it.ID(),
		DType:         string(it.Kind()),
		Name:          it.Name(),
		Price:         it.Price(),
		StockQuantity: it.StockQuantity(),
		Author:        details.Author,
		ISBN:          details.ISBN,
		Artist:        details.Artist,
		Etc:           details.Etc,
		Director:      details.Director,
		Actor:         details.Actor,
	}
}

func (dto ItemDTO) toDomain() (item.Item, error) {
	return item.RestoreItem(dto.ID, dto.Name, dto.Price, dto.StockQuantity, item.Kind(dto.DType), item.Details{
		Author:   dto.Author,
		ISBN:     dto.ISBN,
		Artist:   dto.Artist,
		Etc:      dto.Etc,
		Director: dto.Director,
		Actor:    dto.Actor,
	})
}

func OrderFromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:         o.ID(),
		MemberID:   o.MemberRef().ID(),
		DeliveryID: o.DeliveryRef().ID(),
		OrderDate:  o.OrderDate(),
		Status:     int(o.Status()),
	}
}

func (dto OrderDTO) toDomain() (*order.Order, error) {
	return order.RestoreOrder(dto.ID, dto.MemberID, dto.DeliveryID, dto.OrderDate, order.Status(dto.Status))
}

func OrderItemFromDomain(oi *order.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:         oi.ID(),
		OrderID:    oi.OrderID(),
		ItemID:     oi.ItemRef().ID(),
		OrderPrice: oi.OrderPrice(),
		Count:      oi.Count(),
	}
}

func (dto OrderItemDTO) toDomain() (*order.OrderItem, error) {
	return order.RestoreOrderItem(dto.ID, dto.OrderID, dto.ItemID, dto.OrderPrice, dto.Count)
}

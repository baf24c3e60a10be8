// Package demo builds the two demo orders every store boots with.
package demo

import (
	"errors"
	"fmt"
	"time"

	"shop/internal/core/domain/model/delivery"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/member"
	"shop/internal/core/domain/model/order"
	"shop/internal/pkg/errs"
)

// Data is a consistent set of rows for every table of the graph. Orders and
// order items carry unresolved references only.
type Data struct {
	Members    []member.Member
	Deliveries []delivery.Delivery
	Items      []item.Item
	Orders     []*order.Order
	OrderItems []*order.OrderItem
}

type line struct {
	id, itemID        int64
	orderPrice, count int
}

type placement struct {
	orderID, memberID     int64
	name                  string
	city, street, zipcode string
	lines                 []line
}

// Build returns userA (Seoul) ordering JPA1 x1 and JPA2 x2, and userB (Busan)
// ordering SPRING1 x3 and SPRING2 x4, both placed at orderedAt.
func Build(orderedAt time.Time) (Data, error) {
	var data Data

	books := []struct {
		name         string
		price, stock int
	}{
		{"JPA1 BOOK", 10000, 100},
		{"JPA2 BOOK", 20000, 100},
		{"SPRING1 BOOK", 20000, 200},
		{"SPRING2 BOOK", 40000, 300},
	}
	for i, b := range books {
		it, err := item.NewBook(int64(i+1), b.name, b.price, b.stock, "", "")
		if err != nil {
			return Data{}, err
		}
		data.Items = append(data.Items, it)
	}

	placements := []placement{
		{
			orderID: 1, memberID: 1, name: "userA",
			city: "Seoul", street: "1", zipcode: "1111",
			lines: []line{{id: 1, itemID: 1, orderPrice: 10000, count: 1}, {id: 2, itemID: 2, orderPrice: 20000, count: 2}},
		},
		{
			orderID: 2, memberID: 2, name: "userB",
			city: "Busan", street: "2", zipcode: "2222",
			lines: []line{{id: 3, itemID: 3, orderPrice: 20000, count: 3}, {id: 4, itemID: 4, orderPrice: 40000, count: 4}},
		},
	}
	for _, p := range placements {
		if err := data.place(p, orderedAt); err != nil {
			return Data{}, err
		}
	}

	if err := data.Validate(); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Validate checks the graph is closed and every order has at least one line.
// The join based strategies drop an order without lines, so such data would
// make versions disagree.
func (d Data) Validate() error {
	orders := make(map[int64]int, len(d.Orders))
	for _, o := range d.Orders {
		orders[o.ID()] = 0
	}
	items := make(map[int64]bool, len(d.Items))
	for _, it := range d.Items {
		items[it.ID()] = true
	}

	var errList []error
	for _, oi := range d.OrderItems {
		if _, ok := orders[oi.OrderID()]; !ok {
			errList = append(errList, errs.NewObjectNotFoundError(fmt.Sprintf("orderItem[%d].order", oi.ID()), oi.OrderID()))
			continue
		}
		orders[oi.OrderID()]++
		if !items[oi.ItemRef().ID()] {
			errList = append(errList, errs.NewObjectNotFoundError(fmt.Sprintf("orderItem[%d].item", oi.ID()), oi.ItemRef().ID()))
		}
	}
	for _, o := range d.Orders {
		if orders[o.ID()] == 0 {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("order[%d].orderItems", o.ID())))
		}
	}

	return errors.Join(errList...)
}

func (d *Data) place(p placement, orderedAt time.Time) error {
	address, err := kernel.NewAddress(p.city, p.street, p.zipcode)
	if err != nil {
		return err
	}

	m, memberErr := member.NewMember(p.memberID, p.name, address)
	dl, deliveryErr := delivery.NewDelivery(p.orderID, address, delivery.Ready)
	o, orderErr := order.RestoreOrder(p.orderID, p.memberID, p.orderID, orderedAt, order.Ordered)
	if err = errors.Join(memberErr, deliveryErr, orderErr); err != nil {
		return err
	}

	d.Members = append(d.Members, m)
	d.Deliveries = append(d.Deliveries, dl)
	d.Orders = append(d.Orders, o)

	for _, l := range p.lines {
		oi, lineErr := order.RestoreOrderItem(l.id, p.orderID, l.itemID, l.orderPrice, l.count)
		if lineErr != nil {
			return lineErr
		}
		d.OrderItems = append(d.OrderItems, oi)
	}
	return nil
}

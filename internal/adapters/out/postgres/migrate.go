package postgres

import (
	"context"

	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(orderrepo.Tables()...)
}

// Seed writes data in one transaction. Data whose orders lack lines is
// rejected before anything is written. Rows whose key already exists are
// left untouched, so seeding twice is harmless.
func Seed(ctx context.Context, db *gorm.DB, data demo.Data) error {
	if err := data.Validate(); err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := make([]orderrepo.MemberDTO, 0, len(data.Members))
		for _, m := range data.Members {
			members = append(members, orderrepo.MemberFromDomain(m))
		}
		deliveries := make([]orderrepo.DeliveryDTO, 0, len(data.Deliveries))
		for _, d := range data.Deliveries {
			deliveries = append(deliveries, orderrepo.DeliveryFromDomain(d))
		}
		items := make([]orderrepo.ItemDTO, 0, len(data.Items))
		for _, it := range data.Items {
			items = append(items, orderrepo.ItemFromDomain(it))
		}
		orders := make([]orderrepo.OrderDTO, 0, len(data.Orders))
		for _, o := range data.Orders {
			orders = append(orders, orderrepo.OrderFromDomain(o))
		}
		lines := make([]orderrepo.OrderItemDTO, 0, len(data.OrderItems))
		for _, oi := range data.OrderItems {
			lines = append(lines, orderrepo.OrderItemFromDomain(oi))
		}

		insert := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})
		steps := []func() error{
			func() error { return create(insert, members) },
			func() error { return create(insert, deliveries) },
			func() error { return create(insert, items) },
			func() error { return create(insert, orders) },
			func() error { return create(insert, lines) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

func create[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

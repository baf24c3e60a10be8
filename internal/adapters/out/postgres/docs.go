// Package postgres wires GORM to the order graph schema.
//
// It opens the connection, installs the plugin that counts round trips per
// request, creates the schema and loads the demo orders.
//
// Typical startup:
//
//	db, err := postgres.Open(dsn)
//	if err != nil {
//	    return err
//	}
//	if err = postgres.Migrate(ctx, db); err != nil {
//	    return err
//	}
//	store := orderrepo.NewGormOrderGraphStore(db)
//
// Seeding runs in one transaction: either every demo row is written or none.
package postgres

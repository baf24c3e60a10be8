package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shop/internal/pkg/querycount"
)

// Open connects to dsn with the query counter installed.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err = db.Use(QueryCounter{}); err != nil {
		return nil, err
	}
	return db, nil
}

// QueryCounter is a GORM plugin that counts every executed statement against
// the querycount.Counter in the statement context.
type QueryCounter struct{}

func (QueryCounter) Name() string {
	return "querycount"
}

func (QueryCounter) Initialize(db *gorm.DB) error {
	count := func(tx *gorm.DB) {
		if tx.Statement != nil && tx.Statement.Context != nil {
			querycount.Inc(tx.Statement.Context)
		}
	}

	cb := db.Callback()
	if err := cb.Query().After("gorm:query").Register("querycount:query", count); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("querycount:row", count); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("querycount:raw", count)
}

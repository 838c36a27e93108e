package repository

import "gorm.io/gorm"

// conn picks the transaction when one is in flight so that every read and
// write of a locked attempt runs on the same connection.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

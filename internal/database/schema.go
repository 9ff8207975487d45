package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the tables in dependency order.  The `auth` table is the
// active-token allow-list keyed by token signature.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS user (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_user_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS menu (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		image VARCHAR(1024) NOT NULL,
		price DECIMAL(10,8) NOT NULL,
		description TEXT NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS franchise (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_franchise_name (name)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS store (
		id INT AUTO_INCREMENT PRIMARY KEY,
		franchiseId INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		FOREIGN KEY (franchiseId) REFERENCES franchise(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS userRole (
		id INT AUTO_INCREMENT PRIMARY KEY,
		userId INT NOT NULL,
		role VARCHAR(32) NOT NULL,
		objectId INT NOT NULL DEFAULT 0,
		KEY idx_userRole_userId (userId),
		KEY idx_userRole_objectId (objectId),
		FOREIGN KEY (userId) REFERENCES user(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS auth (
		token VARCHAR(512) PRIMARY KEY,
		userId INT NOT NULL,
		KEY idx_auth_userId (userId)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS dinerOrder (
		id INT AUTO_INCREMENT PRIMARY KEY,
		dinerId INT NOT NULL,
		franchiseId INT NOT NULL,
		storeId INT NOT NULL,
		date DATETIME NOT NULL,
		KEY idx_dinerOrder_dinerId (dinerId),
		KEY idx_dinerOrder_storeId (storeId)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS orderItem (
		id INT AUTO_INCREMENT PRIMARY KEY,
		orderId INT NOT NULL,
		menuId INT NOT NULL,
		description VARCHAR(255) NOT NULL,
		price DECIMAL(10,8) NOT NULL,
		FOREIGN KEY (orderId) REFERENCES dinerOrder(id)
	) ENGINE=InnoDB`,
}

// Migrate creates any missing tables.  It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}

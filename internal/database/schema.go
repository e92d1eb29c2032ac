package database

import (
	"context"
	"database/sql"
)

// schema holds one CREATE TABLE IF NOT EXISTS statement per table so a
// fresh database bootstraps itself at startup.  Statements are ordered so
// foreign keys always reference tables created earlier.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        customer_code VARCHAR(64) NOT NULL UNIQUE,
        name VARCHAR(255) NOT NULL,
        phone VARCHAR(32) NULL,
        remaining_minutes INT NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS club_tables (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        code VARCHAR(32) NOT NULL UNIQUE,
        name VARCHAR(255) NOT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS accessories (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        price DOUBLE NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS packages (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        total_hours INT NOT NULL DEFAULT 0,
        bonus_hours INT NOT NULL DEFAULT 0,
        price DOUBLE NOT NULL DEFAULT 0
    )`,
	`CREATE TABLE IF NOT EXISTS pricing_tiers (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        min_hours DOUBLE NOT NULL,
        max_hours DOUBLE NULL,
        price_per_hour DOUBLE NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS rentals (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        type ENUM('short','package') NOT NULL,
        customer_id BIGINT UNSIGNED NOT NULL,
        table_id BIGINT UNSIGNED NULL,
        package_id BIGINT UNSIGNED NULL,
        start_at DATETIME NOT NULL,
        end_at DATETIME NULL,
        hours DOUBLE NOT NULL DEFAULT 0,
        minutes INT NOT NULL DEFAULT 0,
        total_amount DOUBLE NOT NULL DEFAULT 0,
        discount DOUBLE NOT NULL DEFAULT 0,
        note TEXT NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        KEY idx_rentals_table_open (table_id, end_at),
        KEY idx_rentals_customer_type (customer_id, type, start_at),
        CONSTRAINT fk_rentals_customer FOREIGN KEY (customer_id) REFERENCES customers(id),
        CONSTRAINT fk_rentals_table FOREIGN KEY (table_id) REFERENCES club_tables(id),
        CONSTRAINT fk_rentals_package FOREIGN KEY (package_id) REFERENCES packages(id)
    )`,
	`CREATE TABLE IF NOT EXISTS rental_accessories (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        rental_id BIGINT UNSIGNED NOT NULL,
        accessory_id BIGINT UNSIGNED NOT NULL,
        quantity INT NOT NULL DEFAULT 1,
        unit_price DOUBLE NOT NULL DEFAULT 0,
        total_price DOUBLE NOT NULL DEFAULT 0,
        KEY idx_rental_accessories_rental (rental_id),
        CONSTRAINT fk_ra_rental FOREIGN KEY (rental_id) REFERENCES rentals(id) ON DELETE CASCADE,
        CONSTRAINT fk_ra_accessory FOREIGN KEY (accessory_id) REFERENCES accessories(id)
    )`,
	`CREATE TABLE IF NOT EXISTS invoices (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        code VARCHAR(64) NOT NULL UNIQUE,
        customer_id BIGINT UNSIGNED NOT NULL,
        customer_name VARCHAR(255) NOT NULL DEFAULT '',
        customer_phone VARCHAR(32) NOT NULL DEFAULT '',
        customer_code VARCHAR(64) NOT NULL DEFAULT '',
        rental_id BIGINT UNSIGNED NOT NULL,
        subtotal DOUBLE NOT NULL DEFAULT 0,
        discount DOUBLE NOT NULL DEFAULT 0,
        total DOUBLE NOT NULL DEFAULT 0,
        status ENUM('unpaid','paid') NOT NULL DEFAULT 'unpaid',
        service_details JSON NULL,
        rental_start_at DATETIME NULL,
        rental_end_at DATETIME NULL,
        rental_minutes INT NOT NULL DEFAULT 0,
        rental_type VARCHAR(16) NOT NULL DEFAULT '',
        table_name VARCHAR(255) NOT NULL DEFAULT '',
        remaining_minutes INT NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        KEY idx_invoices_customer (customer_id),
        CONSTRAINT fk_invoices_rental FOREIGN KEY (rental_id) REFERENCES rentals(id)
    )`,
	`CREATE TABLE IF NOT EXISTS bank_info (
        id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
        bank_name VARCHAR(255) NOT NULL DEFAULT '',
        account_name VARCHAR(255) NOT NULL DEFAULT '',
        account_number VARCHAR(64) NOT NULL DEFAULT '',
        qr_image_url VARCHAR(512) NULL
    )`,
}

// EnsureSchema creates any missing tables.  It is idempotent and safe to
// run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

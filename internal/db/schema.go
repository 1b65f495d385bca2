package db

import "database/sql"

// EnsureSchema creates the tables the service owns. Statements are
// idempotent so startup can run them unconditionally.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS routes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			origin VARCHAR(100) NOT NULL,
			destination VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS vessels (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS vessel_crew (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vessel_id BIGINT NOT NULL,
			name VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL,
			KEY idx_vessel (vessel_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			vessel_id BIGINT NOT NULL,
			route_id BIGINT NOT NULL,
			trip_date VARCHAR(10) NOT NULL,
			trip_time VARCHAR(5) NOT NULL,
			self_service_quota INT NOT NULL DEFAULT 0,
			self_service_booked INT NOT NULL DEFAULT 0,
			staff_sold_quota INT NOT NULL DEFAULT 0,
			staff_sold_booked INT NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			KEY idx_route_date (route_id, trip_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS fare_rules (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			route_id BIGINT NOT NULL,
			base_fare_cents BIGINT NOT NULL,
			discount_percent INT NOT NULL DEFAULT 0,
			valid_from VARCHAR(10) NOT NULL,
			valid_until VARCHAR(10) NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			KEY idx_route_valid (route_id, valid_from)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			reference VARCHAR(32) NOT NULL,
			trip_id BIGINT NOT NULL,
			pool VARCHAR(16) NOT NULL,
			contact_name VARCHAR(255) NOT NULL,
			contact_phone VARCHAR(100) NOT NULL DEFAULT '',
			passenger_count INT NOT NULL,
			total_amount_cents BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_by BIGINT NULL,
			refund_reason VARCHAR(255) NULL,
			refunded_at DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_reference (reference),
			KEY idx_trip (trip_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS booking_passengers (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL,
			passenger_index INT NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			fare_class VARCHAR(10) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT '',
			fare_cents BIGINT NOT NULL,
			UNIQUE KEY uniq_booking_index (booking_id, passenger_index),
			KEY idx_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL,
			passenger_index INT NOT NULL,
			ticket_number VARCHAR(16) NOT NULL,
			status VARCHAR(20) NOT NULL,
			checked_in_at DATETIME NULL,
			boarded_at DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_ticket_number (ticket_number),
			UNIQUE KEY uniq_booking_index (booking_id, passenger_index),
			KEY idx_booking (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS ticket_sequence (
			id TINYINT PRIMARY KEY,
			next_value BIGINT NOT NULL
		) ENGINE=InnoDB;`,

		`INSERT IGNORE INTO ticket_sequence (id, next_value) VALUES (1, 1);`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'staff',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

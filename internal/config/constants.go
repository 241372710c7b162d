package config

import "time"

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./okuyamayanlar.db"

	// DefaultLoanPeriod is the time a member may keep a borrowed book.
	// Overridable via LENDING_LOAN_PERIOD.
	DefaultLoanPeriod = 14 * 24 * time.Hour
)

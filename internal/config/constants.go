package config

const (
	// DefaultDatabasePath is the default location of the catalog database
	DefaultDatabasePath = "/tmp/database.sqlite"
)

package database

// Driver represents a database backend type. calendra is local-first and
// ships only a SQLite backend; the type remains distinct from a plain
// string so config and factory code stay self-documenting.
type Driver string

const (
	// DriverSQLite represents SQLite database.
	DriverSQLite Driver = "sqlite"
)

// String returns the string representation of the driver.
func (d Driver) String() string {
	return string(d)
}

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	return d == DriverSQLite
}

package db

// NullIfZero helps store optional foreign keys without writing zeros.
func NullIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

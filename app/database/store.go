package database

var (
	_ SettingsRepository = (*Store)(nil)
	_ PostRepository     = (*Store)(nil)
	_ AdminRepository    = (*Store)(nil)
	_ FilterRepository   = (*Store)(nil)
)

// Store implements every repository over one sqlite handle.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

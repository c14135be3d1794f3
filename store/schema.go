package store

// schemaVersion is the compiled-in migration target. On open, if the
// stored `metadata.schema_version` is less, migrations run forward in
// order; every statement is idempotent so re-running a migration against
// an already-migrated database is a no-op.
const schemaVersion = 1

// migrations is the forward ladder. Index 0 brings a brand-new database
// to schema_version 1; later entries (none yet) would bring version 1 to
// 2, and so on.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS licenses (
			unique_system_identifier INTEGER PRIMARY KEY,
			uls_file_number TEXT,
			call_sign TEXT COLLATE NOCASE,
			license_status INTEGER,
			radio_service_code INTEGER,
			grant_date TEXT,
			expired_date TEXT,
			cancellation_date TEXT,
			effective_date TEXT,
			last_action_date TEXT,
			entity_name TEXT COLLATE NOCASE,
			first_name TEXT COLLATE NOCASE,
			last_name TEXT COLLATE NOCASE,
			street_address TEXT,
			city TEXT COLLATE NOCASE,
			state TEXT COLLATE NOCASE,
			zip_code TEXT,
			frn TEXT,
			operator_class INTEGER,
			grid_square TEXT
		) WITHOUT ROWID`,

		`CREATE TABLE IF NOT EXISTS entities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_system_identifier INTEGER NOT NULL,
			entity_type INTEGER,
			entity_name TEXT COLLATE NOCASE,
			first_name TEXT COLLATE NOCASE,
			middle_initial TEXT,
			last_name TEXT COLLATE NOCASE,
			suffix TEXT,
			phone TEXT,
			fax TEXT,
			email TEXT,
			street_address TEXT,
			city TEXT COLLATE NOCASE,
			state TEXT COLLATE NOCASE,
			zip_code TEXT,
			po_box TEXT,
			frn TEXT,
			applicant_type INTEGER,
			status_code TEXT,
			UNIQUE(unique_system_identifier, entity_type)
		)`,

		`CREATE TABLE IF NOT EXISTS amateur_operators (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_system_identifier INTEGER NOT NULL UNIQUE,
			operator_class INTEGER,
			group_code TEXT,
			region_code TEXT,
			trustee_call_sign TEXT COLLATE NOCASE,
			trustee_indicator TEXT,
			systematic_change TEXT,
			vanity_call_sign_change TEXT,
			vanity_relationship TEXT,
			previous_call_sign TEXT COLLATE NOCASE,
			previous_operator_class INTEGER,
			trustee_name TEXT COLLATE NOCASE
		)`,

		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_system_identifier INTEGER NOT NULL,
			log_date TEXT,
			code TEXT,
			UNIQUE(unique_system_identifier, log_date, code)
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_system_identifier INTEGER NOT NULL,
			comment_date TEXT,
			description TEXT,
			status_code TEXT,
			UNIQUE(unique_system_identifier, comment_date)
		)`,

		`CREATE TABLE IF NOT EXISTS special_conditions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unique_system_identifier INTEGER NOT NULL,
			type_code TEXT,
			code TEXT,
			status_code TEXT,
			UNIQUE(unique_system_identifier, code)
		)`,

		`CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT
		) WITHOUT ROWID`,

		`CREATE TABLE IF NOT EXISTS import_status (
			service TEXT NOT NULL,
			record_type TEXT NOT NULL,
			imported_at TEXT,
			row_count INTEGER,
			PRIMARY KEY (service, record_type)
		) WITHOUT ROWID`,

		`CREATE TABLE IF NOT EXISTS applied_patches (
			service TEXT NOT NULL,
			patch_date TEXT NOT NULL,
			weekday TEXT,
			applied_at TEXT,
			etag TEXT,
			row_count INTEGER,
			PRIMARY KEY (service, patch_date)
		) WITHOUT ROWID`,

		`CREATE INDEX IF NOT EXISTS idx_licenses_call_sign ON licenses(call_sign)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_status ON licenses(license_status)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_service ON licenses(radio_service_code)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_entity_name ON licenses(entity_name)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_last_name ON licenses(last_name)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_city_state ON licenses(city, state)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_grant_date ON licenses(grant_date)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_expired_date ON licenses(expired_date)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_frn ON licenses(frn)`,

		`CREATE INDEX IF NOT EXISTS idx_entities_usi ON entities(unique_system_identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_frn ON entities(frn)`,

		`CREATE INDEX IF NOT EXISTS idx_amateur_usi ON amateur_operators(unique_system_identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_history_usi ON history(unique_system_identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_usi ON comments(unique_system_identifier)`,
		`CREATE INDEX IF NOT EXISTS idx_special_conditions_usi ON special_conditions(unique_system_identifier)`,
	},
}

// migrate runs every migration after the currently stored schema_version,
// in order, updating metadata.schema_version as it goes.
func migrate(db execer) error {
	current, err := readSchemaVersion(db)
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		for _, stmt := range migrations[v] {
			if _, err := db.Exec(stmt); err != nil {
				return err
			}
		}
		if err := writeSchemaVersion(db, v+1); err != nil {
			return err
		}
	}
	return nil
}

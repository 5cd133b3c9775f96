package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/famfolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateValueEntriesTable()

	if err := CreateTables(DB); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// CreateTables ensures the schema exists. Exposed so tests can run against
// an in-memory database.
func CreateTables(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		person_id INTEGER NOT NULL,
		purchase_date TEXT NOT NULL,
		purchase_amount REAL NOT NULL DEFAULT 0,
		current_value REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(person_id) REFERENCES people(id)
	);

	CREATE TABLE IF NOT EXISTS value_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		investment_change REAL NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY(asset_id) REFERENCES assets(id),
		UNIQUE(asset_id, date)
	);
	`
	_, err := db.Exec(createTableStatement)
	return err
}

func migrateValueEntriesTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='value_entries'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'value_entries' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'value_entries' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'value_entries' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'value_entries' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(value_entries)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'value_entries'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'value_entries': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'value_entries'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'value_entries': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'value_entries'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'value_entries': %v", err)
		}
		return
	}

	// Early versions stored value entries without capital movements or notes.
	if _, ok := columnExists["investment_change"]; !ok {
		_, err := DB.Exec("ALTER TABLE value_entries ADD COLUMN investment_change REAL NOT NULL DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'investment_change' column to 'value_entries' table", "error", err)
		} else {
			logger.L.Info("Added 'investment_change' column to 'value_entries' table")
		}
	}
	if _, ok := columnExists["notes"]; !ok {
		_, err := DB.Exec("ALTER TABLE value_entries ADD COLUMN notes TEXT NOT NULL DEFAULT ''")
		if err != nil {
			logger.L.Error("Error adding 'notes' column to 'value_entries' table", "error", err)
		} else {
			logger.L.Info("Added 'notes' column to 'value_entries' table")
		}
	}
}

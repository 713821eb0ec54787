// Command seed builds the two local sqlite databases used for
// development: the transactional store with its quotation and override
// tables, and a stand-in for the corporate catalog with sample master
// data. Production schemas are owned by DBA migrations; this exists so
// the service runs end to end without the intranet.
package main

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/database"
)

func main() {
	stores, err := database.ConnectStores("laboratorio.db", "catalogo.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Creating transactional schema...")
	mustExec(stores.Main,
		`CREATE TABLE IF NOT EXISTS quotations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date DATETIME,
			description TEXT,
			employee_id INTEGER,
			client_ref TEXT,
			contact_code TEXT,
			discount_percent REAL DEFAULT 0,
			currency TEXT DEFAULT 'PEN',
			exchange_rate REAL DEFAULT 1,
			personnel_desc TEXT DEFAULT '', personnel_amount REAL DEFAULT 0,
			operational_desc TEXT DEFAULT '', operational_amount REAL DEFAULT 0,
			considerations_desc TEXT DEFAULT '', considerations_amount REAL DEFAULT 0,
			report_desc TEXT DEFAULT '', report_amount REAL DEFAULT 0,
			other_desc TEXT DEFAULT '', other_amount REAL DEFAULT 0,
			approved BOOLEAN DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quotation_analysis_lines (
			quotation_id INTEGER,
			analysis_id INTEGER,
			company TEXT,
			matrix_code TEXT,
			unit_price REAL,
			quantity REAL
		)`,
		`CREATE TABLE IF NOT EXISTS quotation_profile_lines (
			quotation_id INTEGER,
			profile_ref TEXT,
			name TEXT,
			quantity REAL,
			base_price REAL,
			matrix_code TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_overrides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			subcontracted BOOLEAN DEFAULT 0,
			base_price REAL,
			accreditor_id INTEGER,
			observations TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS profile_overrides (
			profile_key TEXT PRIMARY KEY,
			name TEXT,
			base_price REAL
		)`,
		`CREATE TABLE IF NOT EXISTS accreditors (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE IF NOT EXISTS employees (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE IF NOT EXISTS sessions (uuid TEXT, employee_id INTEGER, expires_at DATETIME)`,
		`CREATE TABLE IF NOT EXISTS permissions (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE IF NOT EXISTS employee_permissions (employee_id INTEGER, permission_id INTEGER)`,
	)

	log.Println("Creating catalog schema...")
	mustExec(stores.Read,
		`CREATE TABLE IF NOT EXISTS catalog_analyses (
			code TEXT, name TEXT, section TEXT, technique TEXT,
			method_code TEXT, detection_limit TEXT, quantification_limit TEXT,
			retired BOOLEAN DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_profiles (code TEXT, name TEXT, notes TEXT DEFAULT '')`,
		`CREATE TABLE IF NOT EXISTS catalog_matrices (code TEXT, name TEXT)`,
		`CREATE TABLE IF NOT EXISTS catalog_procedures (code TEXT, description TEXT)`,
		`CREATE TABLE IF NOT EXISTS catalog_clients (
			code TEXT, name TEXT, trade_name TEXT DEFAULT '',
			tax_id TEXT DEFAULT '', address TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_client_contacts (
			code TEXT, client_code TEXT, name TEXT,
			role TEXT DEFAULT '', email TEXT DEFAULT '', phone TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS catalog_profile_assays (profile_code TEXT, assay_code TEXT)`,
		`CREATE TABLE IF NOT EXISTS catalog_assay_matrices (assay_code TEXT, matrix_code TEXT)`,
	)

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"quotation_profile_lines", "quotation_analysis_lines", "quotations",
		"analysis_overrides", "profile_overrides", "accreditors",
		"employee_permissions", "permissions", "sessions", "employees",
	} {
		stores.Main.Exec("DELETE FROM " + table)
	}
	for _, table := range []string{
		"catalog_assay_matrices", "catalog_profile_assays",
		"catalog_client_contacts", "catalog_clients", "catalog_procedures",
		"catalog_matrices", "catalog_profiles", "catalog_analyses",
	} {
		stores.Read.Exec("DELETE FROM " + table)
	}

	log.Println("Seeding employees and permissions...")
	mustExec(stores.Main,
		`INSERT INTO employees (id, name) VALUES (1, 'R. Quispe'), (2, 'L. Torres')`,
		`INSERT INTO permissions (id, name) VALUES (1, 'admin-lab'), (2, 'ver-cotizaciones')`,
		`INSERT INTO employee_permissions (employee_id, permission_id) VALUES (1, 1), (1, 2), (2, 2)`,
	)
	stores.Main.Exec(
		`INSERT INTO sessions (uuid, employee_id, expires_at) VALUES (?, ?, ?)`,
		"dev-session", int64(1), time.Now().Add(30*24*time.Hour),
	)

	log.Println("Seeding catalog master data...")
	mustExec(stores.Read,
		`INSERT INTO catalog_analyses (code, name, section, technique, method_code, detection_limit, quantification_limit) VALUES
			('A01', 'Plomo total', 'Metales', 'ICP-MS', 'EPA2008', '0.001', '0.005'),
			('A02', 'Cianuro wad', 'Inorgánicos', 'Colorimetría', 'SM4500CN', '0.002', '0.010'),
			('A03', 'Hidrocarburos totales', 'Orgánicos', 'GC-FID', 'EPA8015', '0.05', '0.10')`,
		`INSERT INTO catalog_profiles (code, name) VALUES ('012', 'BTEX'), ('7', 'Metales totales')`,
		`INSERT INTO catalog_matrices (code, name) VALUES ('000123', 'Agua superficial'), ('000045', 'Suelo agrícola')`,
		`INSERT INTO catalog_procedures (code, description) VALUES
			('EPA2008', 'EPA 200.8 Rev 5.4'),
			('SM4500CN', 'SMEWW 4500-CN'),
			('EPA8015', 'EPA 8015C')`,
		`INSERT INTO catalog_clients (code, name, trade_name, tax_id, address) VALUES
			('C042', 'Minera Andina S.A.C.', 'MINANDINA', '20100012345', 'Av. Arequipa 100, Lima')`,
		`INSERT INTO catalog_client_contacts (code, client_code, name, role, email) VALUES
			('CT01', 'C042', 'María Castillo', 'Jefa de laboratorio', 'mcastillo@minandina.pe')`,
		`INSERT INTO catalog_profile_assays (profile_code, assay_code) VALUES ('012', 'A03'), ('7', 'A01')`,
		`INSERT INTO catalog_assay_matrices (assay_code, matrix_code) VALUES ('A01', '000123'), ('A03', '000045')`,
	)

	log.Println("Seeding overrides and a sample quotation...")
	mustExec(stores.Main,
		`INSERT INTO analysis_overrides (id, name, subcontracted, base_price, accreditor_id) VALUES
			(10, 'Plomo total', 0, 120, 1),
			(11, 'Hidrocarburos totales', 1, 250, NULL)`,
		`INSERT INTO profile_overrides (profile_key, name, base_price) VALUES ('12', 'BTEX', 150)`,
		`INSERT INTO accreditors (id, name) VALUES (1, 'INACAL')`,
	)
	stores.Main.Exec(
		`INSERT INTO quotations (date, description, employee_id, client_ref, contact_code, discount_percent, currency, exchange_rate, report_desc, report_amount)
		 VALUES (?, 'Monitoreo trimestral de agua', 1, 'C042 Minera Andina', 'CT01', 10, 'USD', 3.7, 'Informe', 30)`,
		time.Now(),
	)
	mustExec(stores.Main,
		`INSERT INTO quotation_analysis_lines (quotation_id, analysis_id, company, matrix_code, unit_price, quantity) VALUES
			(1, 10, 'Interno', '123', 200, 2),
			(1, 11, 'Subcontratado', '45', 250, 1)`,
		`INSERT INTO quotation_profile_lines (quotation_id, profile_ref, name, quantity, base_price, matrix_code) VALUES
			(1, '12', 'BTEX', 1, 150, '123')`,
	)

	log.Println("Seed complete. Dev session uuid: dev-session")
}

func mustExec(db *gorm.DB, statements ...string) {
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatalf("seed statement failed: %v", err)
		}
	}
}

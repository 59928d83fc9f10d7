package main

import (
	"regexp"
	"strings"
	"testing"
)

func tableDDL(t *testing.T, table string) string {
	t.Helper()
	prefix := "CREATE TABLE IF NOT EXISTS " + table + " ("
	for _, stmt := range statements {
		if strings.HasPrefix(stmt, prefix) {
			return stmt
		}
	}
	t.Fatalf("no DDL statement for table %q", table)
	return ""
}

func declaredColumns(ddl string) map[string]string {
	body := ddl[strings.Index(ddl, "(")+1 : strings.LastIndex(ddl, ")")]
	columns := make(map[string]string)
	for _, line := range strings.Split(body, ",\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		columns[name] = rest
	}
	return columns
}

// The repositories' insert statements name these columns; a column missing
// from the schema fails every insert on that table.
var insertedColumns = map[string][]string{
	"users":                {"id", "email", "name", "role", "phone", "fleet_owner_id", "password_hash", "created_at"},
	"wallets":              {"id", "driver_id", "balance", "fuel_limit", "toll_limit", "food_limit", "lodging_limit", "repair_limit", "created_at"},
	"vehicles":             {"id", "owner_id", "registration_number", "model", "capacity_tons", "status", "created_at"},
	"trips":                {"id", "fleet_owner_id", "driver_id", "vehicle_id", "origin", "destination", "cargo_details", "estimated_distance", "status", "total_expenses", "created_at"},
	"expenses":             {"id", "trip_id", "driver_id", "category", "amount", "description", "location", "status", "created_at"},
	"return_loads":         {"id", "posted_by", "origin", "destination", "cargo_type", "weight_tons", "price", "status", "created_at"},
	"driver_performance":   {"id", "driver_id", "total_trips", "total_distance_km", "safety_score", "reward_points", "created_at", "updated_at"},
	"payment_transactions": {"id", "user_id", "session_id", "amount", "currency", "package", "payment_status", "status", "created_at", "updated_at"},
}

func TestSchemaDeclaresEveryInsertedColumn(t *testing.T) {
	for table, wanted := range insertedColumns {
		columns := declaredColumns(tableDDL(t, table))
		for _, col := range wanted {
			if _, ok := columns[col]; !ok {
				t.Errorf("table %s: inserted column %q not declared", table, col)
			}
		}
	}
}

// These columns are inserted through NULLIF(.., ''), so an empty optional
// field arrives as NULL and the schema must accept it.
func TestOptionalTextColumnsAreNullable(t *testing.T) {
	nullable := map[string][]string{
		"expenses":             {"description", "location"},
		"trips":                {"cargo_details"},
		"users":                {"fleet_owner_id"},
		"payment_transactions": {"package"},
	}
	notNull := regexp.MustCompile(`\bNOT NULL\b`)
	for table, cols := range nullable {
		columns := declaredColumns(tableDDL(t, table))
		for _, col := range cols {
			def, ok := columns[col]
			if !ok {
				t.Errorf("table %s: column %q not declared", table, col)
				continue
			}
			if notNull.MatchString(def) {
				t.Errorf("table %s: column %q must be nullable, declared %q", table, col, def)
			}
		}
	}
}

package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (Company{}).TableName(); got != "companies" {
		t.Fatalf("unexpected Company table name: %s", got)
	}
}

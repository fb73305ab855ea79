package database_test

import (
	"testing"

	"github.com/Abraxas-365/recruitflow/pkg/database"
	"github.com/stretchr/testify/assert"
)

func TestSchemaIsIdempotent(t *testing.T) {
	schema := database.Schema()

	for _, table := range []string{"profiles", "jobs", "job_fills", "candidates", "candidate_status_history"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.NotContains(t, schema, "CREATE TABLE "+"jobs")
	assert.Contains(t, schema, "quantity_filled <= quantity")
}

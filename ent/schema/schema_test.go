package schema

import (
	"testing"

	"entgo.io/ent"
	entschema "entgo.io/ent/dialect/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studentperf/internal/store"
)

type entity interface {
	Fields() []ent.Field
	Mixin() []ent.Mixin
}

// TestTablesMatchSchemas keeps the hand-written migration tables in the
// store package in step with the declarative schemas here.
func TestTablesMatchSchemas(t *testing.T) {
	tests := []struct {
		name   string
		entity entity
		table  *entschema.Table
	}{
		{"student", Student{}, store.StudentsTable},
		{"user", User{}, store.UsersTable},
		{"model", Model{}, store.ModelsTable},
		{"run_event", RunEvent{}, store.RunEventsTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields []ent.Field
			for _, m := range tt.entity.Mixin() {
				fields = append(fields, m.Fields()...)
			}
			fields = append(fields, tt.entity.Fields()...)

			cols := make(map[string]*entschema.Column, len(tt.table.Columns))
			for _, c := range tt.table.Columns {
				cols[c.Name] = c
			}

			seen := map[string]bool{"id": true}
			for _, f := range fields {
				d := f.Descriptor()
				seen[d.Name] = true
				col, ok := cols[d.Name]
				require.True(t, ok, "column %s missing from table %s", d.Name, tt.table.Name)
				assert.Equal(t, d.Info.Type, col.Type, "type of %s", d.Name)
				assert.Equal(t, d.Optional, col.Nullable, "nullability of %s", d.Name)
			}
			for name := range cols {
				assert.True(t, seen[name], "table %s has column %s with no schema field", tt.table.Name, name)
			}
		})
	}
}

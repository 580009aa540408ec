package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// StudentsColumns holds the columns for the "students" table.
	StudentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "student_no", Type: field.TypeString, Nullable: true},
		{Name: "name", Type: field.TypeString},
		{Name: "gender", Type: field.TypeString, Nullable: true},
		{Name: "age", Type: field.TypeInt, Nullable: true},
		{Name: "location", Type: field.TypeString, Nullable: true},
		{Name: "famsize", Type: field.TypeString, Nullable: true},
		{Name: "pstatus", Type: field.TypeString, Nullable: true},
		{Name: "medu", Type: field.TypeInt, Nullable: true},
		{Name: "fedu", Type: field.TypeInt, Nullable: true},
		{Name: "traveltime", Type: field.TypeInt, Nullable: true},
		{Name: "studytime", Type: field.TypeInt, Nullable: true},
		{Name: "failures", Type: field.TypeInt, Nullable: true},
		{Name: "schoolsup", Type: field.TypeString, Nullable: true},
		{Name: "famsup", Type: field.TypeString, Nullable: true},
		{Name: "paid", Type: field.TypeString, Nullable: true},
		{Name: "activities", Type: field.TypeString, Nullable: true},
		{Name: "nursery", Type: field.TypeString, Nullable: true},
		{Name: "higher", Type: field.TypeString, Nullable: true},
		{Name: "internet", Type: field.TypeString, Nullable: true},
		{Name: "famrel", Type: field.TypeInt, Nullable: true},
		{Name: "freetime", Type: field.TypeInt, Nullable: true},
		{Name: "health", Type: field.TypeInt, Nullable: true},
		{Name: "absences", Type: field.TypeInt, Nullable: true},
		{Name: "department", Type: field.TypeString, Nullable: true},
		{Name: "semester", Type: field.TypeInt, Nullable: true},
		{Name: "marks", Type: field.TypeFloat64, Nullable: true},
		{Name: "attendance", Type: field.TypeFloat64, Nullable: true},
		{Name: "participation", Type: field.TypeFloat64, Nullable: true},
		{Name: "score", Type: field.TypeFloat64, Nullable: true},
		{Name: "performance_category", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// StudentsTable holds the schema information for the "students" table.
	StudentsTable = &schema.Table{
		Name:       "students",
		Columns:    StudentsColumns,
		PrimaryKey: []*schema.Column{StudentsColumns[0]},
	}

	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "username", Type: field.TypeString, Unique: true},
		{Name: "password_hash", Type: field.TypeString},
		{Name: "role", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// ModelsColumns holds the columns for the "models" table.
	ModelsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "algorithm", Type: field.TypeString},
		{Name: "policy", Type: field.TypeString},
		{Name: "features", Type: field.TypeString},
		{Name: "accuracy", Type: field.TypeFloat64},
		{Name: "row_count", Type: field.TypeInt},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "data", Type: field.TypeBytes},
	}
	// ModelsTable holds the schema information for the "models" table.
	ModelsTable = &schema.Table{
		Name:       "models",
		Columns:    ModelsColumns,
		PrimaryKey: []*schema.Column{ModelsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "model_created_at", Columns: []*schema.Column{ModelsColumns[6]}},
		},
	}

	// RunEventsColumns holds the columns for the "run_events" table.
	RunEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "kind", Type: field.TypeString},
		{Name: "model_id", Type: field.TypeString, Nullable: true},
		{Name: "algorithm", Type: field.TypeString},
		{Name: "policy", Type: field.TypeString},
		{Name: "row_count", Type: field.TypeInt},
		{Name: "accuracy", Type: field.TypeFloat64, Nullable: true},
		{Name: "label", Type: field.TypeString, Nullable: true},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
	}
	// RunEventsTable holds the schema information for the "run_events" table.
	RunEventsTable = &schema.Table{
		Name:       "run_events",
		Columns:    RunEventsColumns,
		PrimaryKey: []*schema.Column{RunEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "runevent_timestamp", Columns: []*schema.Column{RunEventsColumns[2]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		StudentsTable,
		UsersTable,
		ModelsTable,
		RunEventsTable,
	}
)

// columnNames returns the names of cols, skipping the first skip entries.
func columnNames(cols []*schema.Column, skip int) []string {
	names := make([]string, 0, len(cols)-skip)
	for _, c := range cols[skip:] {
		names = append(names, c.Name)
	}
	return names
}

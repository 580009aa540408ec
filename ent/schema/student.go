package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Student holds one imported or hand-entered student record. Every
// attribute except the name may be missing.
type Student struct {
	ent.Schema
}

func (Student) Fields() []ent.Field {
	return []ent.Field{
		field.String("student_no").Optional().Comment("S/N from the source sheet"),
		field.String("name").Comment(`"Unknown" when the source had none`),
		field.String("gender").Optional(),
		field.Int("age").Optional(),
		field.String("location").Optional(),
		field.String("famsize").Optional(),
		field.String("pstatus").Optional(),
		field.Int("medu").Optional(),
		field.Int("fedu").Optional(),
		field.Int("traveltime").Optional(),
		field.Int("studytime").Optional(),
		field.Int("failures").Optional(),
		field.String("schoolsup").Optional(),
		field.String("famsup").Optional(),
		field.String("paid").Optional(),
		field.String("activities").Optional(),
		field.String("nursery").Optional(),
		field.String("higher").Optional(),
		field.String("internet").Optional(),
		field.Int("famrel").Optional(),
		field.Int("freetime").Optional(),
		field.Int("health").Optional(),
		field.Int("absences").Optional(),
		field.String("department").Optional(),
		field.Int("semester").Optional(),
		field.Float("marks").Optional().Comment("0-100"),
		field.Float("attendance").Optional().Comment("0-100"),
		field.Float("participation").Optional().Comment("0-100"),
		field.Float("score").Optional().Comment("Raw score, 0-50"),
		field.String("performance_category").
			Optional().
			Comment("Poor, Average, Good or Excellent"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

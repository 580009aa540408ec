package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// User is a login account.
type User struct {
	ent.Schema
}

func (User) Fields() []ent.Field {
	return []ent.Field{
		field.String("username").
			NotEmpty().
			Unique(),
		field.String("password_hash").
			Sensitive().
			Comment("bcrypt hash"),
		field.String("role").
			Comment("admin or teacher"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

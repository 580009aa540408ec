package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Model is a trained classifier and the blob needed to reload it.
type Model struct {
	ent.Schema
}

func (Model) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID"),
		field.String("algorithm").
			Comment("decision_tree or naive_bayes"),
		field.String("policy").
			Comment("Label policy used to derive training labels"),
		field.String("features").
			Comment("Comma separated feature names in training order"),
		field.Float("accuracy").
			Comment("Held-out accuracy"),
		field.Int("row_count").
			Comment("Rows left after missing value handling"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Bytes("data").
			Comment("JSON model blob"),
	}
}

func (Model) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
	}
}

package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// RunEvent records one training or prediction run.
type RunEvent struct {
	ent.Schema
}

func (RunEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RunEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("kind").
			Comment("train or predict"),
		field.String("model_id").
			Optional().
			Comment("Empty when the run failed before a model was chosen"),
		field.String("algorithm"),
		field.String("policy"),
		field.Int("row_count"),
		field.Float("accuracy").
			Optional().
			Comment("Set for training runs"),
		field.String("label").
			Optional().
			Comment("Predicted category"),
		field.Int64("latency_ms"),
		field.Bool("success"),
		field.String("error_message").
			Optional(),
	}
}

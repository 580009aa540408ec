package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// BlobFormat is the version written by MarshalModel. Readers accept any
// blob with the same major version.
const BlobFormat = "v1.0.0"

// ErrUnsupportedFormat is returned for blobs written by an incompatible version.
var ErrUnsupportedFormat = errors.New("unsupported model blob format")

type blob struct {
	Format string `json:"format"`
	Model  *Model `json:"model"`
}

// MarshalModel encodes m as a versioned JSON blob.
func MarshalModel(m *Model) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("marshal model: nil model")
	}
	return json.Marshal(blob{Format: BlobFormat, Model: m})
}

// UnmarshalModel decodes a blob written by MarshalModel. The blob is checked
// against a JSON schema and its format version before decoding.
func UnmarshalModel(data []byte) (*Model, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse model blob: %w", err)
	}

	sch, err := blobSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("model blob failed schema validation: %w", err)
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode model blob: %w", err)
	}
	if !semver.IsValid(b.Format) || semver.Major(b.Format) != semver.Major(BlobFormat) {
		return nil, fmt.Errorf("%w: %q (want %s.x)", ErrUnsupportedFormat, b.Format, semver.Major(BlobFormat))
	}
	if err := b.Model.check(); err != nil {
		return nil, fmt.Errorf("model blob: %w", err)
	}
	return b.Model, nil
}

// check verifies the decoded parameters are mutually consistent, so that a
// model that passes it can predict any vector of the right length.
func (m *Model) check() error {
	k := len(m.Encoder.Classes)
	if m.Scaler != nil && (len(m.Scaler.Offset) != len(m.Features) || len(m.Scaler.Scale) != len(m.Features)) {
		return fmt.Errorf("scaler has %d columns, model has %d features", len(m.Scaler.Offset), len(m.Features))
	}
	switch m.Algorithm {
	case DecisionTree:
		if m.Tree == nil || m.Tree.Root == nil {
			return fmt.Errorf("decision tree model has no tree")
		}
		if m.Tree.NumClasses != k {
			return fmt.Errorf("tree has %d classes, encoder has %d", m.Tree.NumClasses, k)
		}
		return m.checkNode(m.Tree.Root, 0)
	case NaiveBayes:
		nb := m.Bayes
		if nb == nil || len(nb.Prior) != k || len(nb.Mean) != k || len(nb.Variance) != k {
			return fmt.Errorf("naive bayes parameters do not match %d classes", k)
		}
		for c := 0; c < k; c++ {
			if len(nb.Mean[c]) != len(m.Features) || len(nb.Variance[c]) != len(m.Features) {
				return fmt.Errorf("naive bayes class %d has wrong feature count", c)
			}
			for f, v := range nb.Variance[c] {
				if !(v > 0) {
					return fmt.Errorf("naive bayes class %d feature %q has variance %v", c, m.Features[f], v)
				}
			}
		}
	default:
		return fmt.Errorf("unknown algorithm %q", m.Algorithm)
	}
	return nil
}

func (m *Model) checkNode(n *Node, depth int) error {
	if len(n.Counts) != m.Tree.NumClasses {
		return fmt.Errorf("tree node at depth %d has %d class counts, want %d", depth, len(n.Counts), m.Tree.NumClasses)
	}
	if (n.Left == nil) != (n.Right == nil) {
		return fmt.Errorf("tree node at depth %d has only one child", depth)
	}
	if n.Left == nil {
		return nil
	}
	if n.Feature < 0 || n.Feature >= len(m.Features) {
		return fmt.Errorf("tree node at depth %d splits on feature %d of %d", depth, n.Feature, len(m.Features))
	}
	if err := m.checkNode(n.Left, depth+1); err != nil {
		return err
	}
	return m.checkNode(n.Right, depth+1)
}

var (
	blobSchemaOnce     sync.Once
	blobSchemaCompiled *jsonschema.Schema
	blobSchemaErr      error
)

const blobSchemaURL = "schema://studentperf/model-blob.json"

func blobSchema() (*jsonschema.Schema, error) {
	blobSchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(blobSchemaJSON), &doc); err != nil {
			blobSchemaErr = fmt.Errorf("parse model blob schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(blobSchemaURL, doc); err != nil {
			blobSchemaErr = fmt.Errorf("add model blob schema: %w", err)
			return
		}
		blobSchemaCompiled, blobSchemaErr = c.Compile(blobSchemaURL)
	})
	return blobSchemaCompiled, blobSchemaErr
}

const blobSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["format", "model"],
  "properties": {
    "format": {"type": "string", "pattern": "^v[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "model": {
      "type": "object",
      "required": ["algorithm", "features", "encoder", "metrics"],
      "properties": {
        "algorithm": {"enum": ["decision_tree", "naive_bayes"]},
        "features": {"type": "array", "minItems": 1, "items": {"type": "string"}},
        "encoder": {
          "type": "object",
          "required": ["classes"],
          "properties": {
            "classes": {"type": "array", "minItems": 2, "items": {"type": "string"}}
          }
        },
        "scaler": {
          "type": "object",
          "required": ["method", "columns", "offset", "scale"],
          "properties": {
            "method": {"enum": ["minmax", "zscore"]},
            "columns": {"type": "array", "items": {"type": "string"}},
            "offset": {"type": "array", "items": {"type": "number"}},
            "scale": {"type": "array", "items": {"type": "number", "not": {"const": 0}}}
          }
        },
        "tree": {"type": "object", "required": ["root", "num_classes"]},
        "naive_bayes": {"type": "object", "required": ["prior", "mean", "variance"]},
        "metrics": {
          "type": "object",
          "properties": {
            "accuracy": {"type": "number", "minimum": 0, "maximum": 1}
          }
        }
      }
    }
  }
}`

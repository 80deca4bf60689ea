package render

import (
	"encoding/json"

	"github.com/certcat/lintx509/x509lint"
)

// jsonField is the JSON shape of a Field. Fields are emitted as arrays so
// the encoding order survives.
type jsonField struct {
	Label    string        `json:"label"`
	Value    *string       `json:"value,omitempty"`
	Children [][]jsonField `json:"children,omitempty"`
}

// jsonFields converts the Field view of n into its JSON shape.
func jsonFields(n x509lint.Node) []jsonField {
	fields := n.Fields()
	ret := make([]jsonField, 0, len(fields))
	for _, f := range fields {
		jf := jsonField{Label: f.Label}
		if f.Container {
			jf.Children = make([][]jsonField, 0, len(f.Children))
			for _, c := range f.Children {
				jf.Children = append(jf.Children, jsonFields(c))
			}
		} else {
			value := f.Value
			jf.Value = &value
		}
		ret = append(ret, jf)
	}
	return ret
}

// JSON encodes n as indented JSON.
func JSON(n x509lint.Node) ([]byte, error) {
	return json.MarshalIndent(jsonFields(n), "", "  ")
}

// JSONValue returns the JSON shape of n for embedding in a larger document.
func JSONValue(n x509lint.Node) any {
	return jsonFields(n)
}

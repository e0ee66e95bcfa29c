package metadata

import "strings"

// DataType is the canonical column type every backend's native type
// strings are mapped into.
type DataType string

// Canonical data types.
const (
	TypeInteger  DataType = "integer"
	TypeNumber   DataType = "number"
	TypeDate     DataType = "date"
	TypeDatetime DataType = "datetime"
	TypeBoolean  DataType = "boolean"
	TypeString   DataType = "string"
)

// integer-like before numeric-like so "bigint" never classifies as
// number, datetime before date so "datetime"/"timestamp" win over a
// bare "date" match
var typeClasses = []struct {
	dataType DataType
	markers  []string
}{
	{TypeInteger, []string{"int"}},
	{TypeNumber, []string{"float", "double", "decimal", "numeric", "real"}},
	{TypeDatetime, []string{"datetime", "timestamp"}},
	{TypeDate, []string{"date"}},
	{TypeBoolean, []string{"bool"}},
	{TypeString, []string{"char", "text", "string", "varchar", "uuid"}},
}

// TypeFromString maps a backend-native type string to the canonical
// DataType via case-insensitive substring matching. Unrecognized types
// classify as string.
func TypeFromString(externalType string) DataType {
	lower := strings.ToLower(externalType)
	for _, class := range typeClasses {
		for _, marker := range class.markers {
			if strings.Contains(lower, marker) {
				return class.dataType
			}
		}
	}
	return TypeString
}

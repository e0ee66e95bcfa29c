package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeFromString(t *testing.T) {
	tests := []struct {
		external string
		want     DataType
	}{
		{"INTEGER", TypeInteger},
		{"BIGINT", TypeInteger},
		{"smallint", TypeInteger},
		{"UInt64", TypeInteger},
		{"DOUBLE", TypeNumber},
		{"DECIMAL(10,2)", TypeNumber},
		{"Float32", TypeNumber},
		{"numeric", TypeNumber},
		{"TIMESTAMP WITH TIME ZONE", TypeDatetime},
		{"DateTime64(3)", TypeDatetime},
		{"DATE", TypeDate},
		{"BOOLEAN", TypeBoolean},
		{"Bool", TypeBoolean},
		{"VARCHAR", TypeString},
		{"TEXT", TypeString},
		{"String", TypeString},
		{"UUID", TypeString},
		// integer-like wins over number-like
		{"int4", TypeInteger},
		// datetime wins over date
		{"datetime", TypeDatetime},
		// unknown types default to string
		{"GEOMETRY", TypeString},
		{"", TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.external, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeFromString(tt.external))
		})
	}
}

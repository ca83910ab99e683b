package parser

import (
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// typeSynonyms maps multi-word type spellings to their canonical name.
// Longer spellings come first where one is a prefix of another.
var typeSynonyms = []struct {
	words []string
	name  string
}{
	{[]string{"character", "large", "object"}, "clob"},
	{[]string{"char", "large", "object"}, "clob"},
	{[]string{"character", "varying"}, "varchar"},
	{[]string{"char", "varying"}, "varchar"},
	{[]string{"binary", "large", "object"}, "blob"},
	{[]string{"double", "precision"}, "double"},
	{[]string{"long", "raw"}, "long raw"},
	{[]string{"long", "varbinary"}, "long varbinary"},
	{[]string{"long", "varchar"}, "long varchar"},
	{[]string{"time", "with", "time", "zone"}, "time with timezone"},
	{[]string{"time", "with", "timezone"}, "time with timezone"},
	{[]string{"timestamp", "with", "time", "zone"}, "timestamp with timezone"},
	{[]string{"timestamp", "with", "timezone"}, "timestamp with timezone"},
	{[]string{"interval", "day", "to", "second"}, "interval day to second"},
	{[]string{"interval", "year", "to", "month"}, "interval year to month"},
}

// actionWords lists the referential actions of a foreign key.
var actionWords = []struct {
	words  []string
	action schema.Action
}{
	{[]string{"no", "action"}, schema.NoAction},
	{[]string{"cascade"}, schema.Cascade},
	{[]string{"set", "null"}, schema.SetNull},
	{[]string{"set", "default"}, schema.SetDefault},
	{[]string{"restrict"}, schema.Restrict},
}

// commonTypes holds type names that can follow a column called KEY or INDEX.
var commonTypes = map[string]bool{
	"binary":    true,
	"char":      true,
	"decimal":   true,
	"float":     true,
	"nchar":     true,
	"numeric":   true,
	"nvarchar":  true,
	"varbinary": true,
	"varchar":   true,
}

func isTypeName(tok token.Token) bool {
	return tok.Kind == token.Word && commonTypes[tok.Value]
}

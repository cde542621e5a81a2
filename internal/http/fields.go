package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Optional* wrap nullable columns in partial-update payloads. A field
// left out of the JSON keeps its stored value; JSON null or the string
// literal "none" clears the column. The existing mobile and admin
// frontends send "none" rather than null, so both are accepted.

const noneLiteral = "none"

type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	if value == noneLiteral {
		o.Null = true
		return nil
	}
	o.Value = value
	return nil
}

// arg returns the SQL bind value: NULL when cleared.
func (o OptionalString) arg() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

type OptionalInt struct {
	Set   bool
	Null  bool
	Value int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if isNoneString(data) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalInt) arg() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

type OptionalInt64 struct {
	Set   bool
	Null  bool
	Value int64
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if isNoneString(data) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalInt64) arg() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

type OptionalFloat struct {
	Set   bool
	Null  bool
	Value float64
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	if isNoneString(data) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalFloat) arg() interface{} {
	if o.Null {
		return nil
	}
	return o.Value
}

func isNoneString(data []byte) bool {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}
	return value == noneLiteral
}

var errNoFields = errors.New("no fields to update")

// updateBuilder accumulates SET clauses for a partial UPDATE.
type updateBuilder struct {
	sets []string
	args []interface{}
}

func (b *updateBuilder) set(column string, value interface{}) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// query renders "UPDATE <table> SET ... WHERE id = $n" with the id
// appended as the final bind argument.
func (b *updateBuilder) query(table string, id int64) (string, []interface{}, error) {
	if b.empty() {
		return "", nil, errNoFields
	}
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(b.sets, ", "), len(args))
	return query, args, nil
}

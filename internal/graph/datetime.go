package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateTime is the RFC 3339 timestamp scalar. Values are rendered in UTC.
type DateTime struct {
	time.Time
}

// ImplementsGraphQLType names the schema scalar this type backs.
func (DateTime) ImplementsGraphQLType(name string) bool { return name == "DateTime" }

// UnmarshalGraphQL coerces a literal or variable into a DateTime.
func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("parse DateTime: %w", err)
		}
		t.Time = parsed
		return nil
	case time.Time:
		t.Time = v
		return nil
	default:
		return fmt.Errorf("cannot coerce %T into a DateTime", input)
	}
}

// MarshalJSON renders the timestamp for the response.
func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role is the access level of an operator account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleClerk Role = "clerk"
)

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleClerk
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	role := Role(str)
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q", str)
	}
	*r = role
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Role) Scan(value interface{}) error {
	if value == nil {
		*r = RoleClerk
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(string(v))
	}
	return nil
}

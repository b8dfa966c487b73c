package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// StringList is a text[] column. Empty lists are stored as NULL.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return pq.StringArray(l).Value()
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	if len(arr) == 0 {
		*l = nil
		return nil
	}
	*l = StringList(arr)
	return nil
}

// IDList is a list of user ids stored as JSON text, so it fits both jsonb
// and plain text columns. Empty lists are stored as NULL.
type IDList []int64

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]int64(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan id list: unsupported type %T", src)
	}
	ids, err := ParseIDs(data)
	if err != nil {
		return fmt.Errorf("scan id list: %w", err)
	}
	*l = ids
	return nil
}

// ParseIDs decodes a JSON array of ids. Elements may be numbers or numeric
// strings; null and empty input yield an empty list.
func ParseIDs(data []byte) (IDList, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	ids := make(IDList, 0, len(raw))
	for _, item := range raw {
		var n json.Number
		if err := json.Unmarshal(item, &n); err == nil {
			id, err := n.Int64()
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("unsupported id %s", item)
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// DefaultGeoInfo is stored when a client sends no geo information.
var DefaultGeoInfo = datatypes.JSON(`{"country":"Unknown","region":"Unknown","city":"Unknown","timezone":"Unknown"}`)

// UnknownClientValue is stored for absent ip and browser information.
const UnknownClientValue = "Unknown"

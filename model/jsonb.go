package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/kinship/helper"
)

func jsonbValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonbScan(dst interface{}, value interface{}) error {
	if value == nil {
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, dst)
}

// Value implements the driver.Valuer interface for database storage
func (v VitalStats) Value() (driver.Value, error) {
	return jsonbValue(v)
}

// Scan implements the sql.Scanner interface for database retrieval
func (v *VitalStats) Scan(value interface{}) error {
	return jsonbScan(v, value)
}

// Value implements the driver.Valuer interface for database storage
func (s Story) Value() (driver.Value, error) {
	return jsonbValue(s)
}

// Scan implements the sql.Scanner interface for database retrieval
func (s *Story) Scan(value interface{}) error {
	return jsonbScan(s, value)
}

// Value implements the driver.Valuer interface for database storage
func (r Relations) Value() (driver.Value, error) {
	return jsonbValue(r)
}

// Scan implements the sql.Scanner interface for database retrieval
func (r *Relations) Scan(value interface{}) error {
	return jsonbScan(r, value)
}

// Value implements the driver.Valuer interface for database storage
func (m ProfileMetadata) Value() (driver.Value, error) {
	return jsonbValue(m)
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *ProfileMetadata) Scan(value interface{}) error {
	return jsonbScan(m, value)
}

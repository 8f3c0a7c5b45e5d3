package dao

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONColumn 以 JSON 字符串存储的列，实现 Value() 和 Scan()
type JSONColumn[T any] struct {
	Val   T
	Valid bool
}

func NewJSONColumn[T any](val T) JSONColumn[T] {
	return JSONColumn[T]{Val: val, Valid: true}
}

// Value 实现 driver.Valuer 接口
func (j JSONColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	bytes, err := json.Marshal(j.Val)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSONColumn[T]) Scan(value any) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		var zero T
		j.Val, j.Valid = zero, false
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSON value")
	}
	if err := json.Unmarshal(bytes, &j.Val); err != nil {
		return err
	}
	j.Valid = true
	return nil
}

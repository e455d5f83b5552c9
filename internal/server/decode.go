package server

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"devdesk/internal/models"
)

// fields is a JSON object decoded lazily so that absent, null and present
// values stay distinguishable for partial updates.
type fields map[string]json.RawMessage

func bindFields(c *gin.Context) (fields, error) {
	var f fields
	if err := c.ShouldBindJSON(&f); err != nil {
		return nil, models.Invalid("body", "request body must be a JSON object")
	}
	if f == nil {
		f = fields{}
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// str returns the string at key. ok is false when the key is absent or null.
func (f fields) str(key string) (value string, ok bool, err error) {
	raw, present := f[key]
	if !present || isNull(raw) {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, models.Invalid(key, "%s must be a string", key)
	}
	return value, true, nil
}

// nullableStr decodes key for a partial update.
func (f fields) nullableStr(key string) (models.Nullable[string], error) {
	raw, present := f[key]
	if !present {
		return models.Nullable[string]{}, nil
	}
	if isNull(raw) {
		return models.Null[string](), nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.Nullable[string]{}, models.Invalid(key, "%s must be a string", key)
	}
	return models.Some(v), nil
}

// hours decodes an hours value given as a JSON number or numeric string.
// Null and "" clear the field.
func (f fields) hours(key string) (models.Nullable[float64], error) {
	raw, present := f[key]
	if !present {
		return models.Nullable[float64]{}, nil
	}
	if isNull(raw) {
		return models.Null[float64](), nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		v, err := models.CheckHours(key, num)
		if err != nil {
			return models.Nullable[float64]{}, err
		}
		return models.Some(*v), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return models.Nullable[float64]{}, models.Invalid(key, "%s must be a number", key)
	}
	v, err := models.ParseHours(key, text)
	if err != nil {
		return models.Nullable[float64]{}, err
	}
	if v == nil {
		return models.Null[float64](), nil
	}
	return models.Some(*v), nil
}

// enum decodes a required-if-present enum value; null is reported as invalid.
func enum[T any](f fields, key string, parse func(string) (T, error)) (*T, error) {
	raw, present := f[key]
	if !present {
		return nil, nil
	}
	var text string
	if isNull(raw) {
		text = "null"
	} else if err := json.Unmarshal(raw, &text); err != nil {
		text = string(bytes.TrimSpace(raw))
	}
	v, err := parse(text)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

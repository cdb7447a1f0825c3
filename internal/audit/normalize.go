package audit

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goodsflow/internal/models"
)

// Normalize flattens an entity struct into a column -> value map keyed by db
// tags. Values are reduced to JSON-friendly scalars: time.Time becomes
// RFC3339, uuid.UUID a string, decimal.Decimal a float64. Nil pointers map
// to nil. Non-struct inputs return nil.
func Normalize(entity interface{}) models.JSONB {
	if entity == nil {
		return nil
	}
	v := reflect.ValueOf(entity)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	out := models.JSONB{}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		col := field.Tag.Get("db")
		if col == "" || col == "-" {
			col = strings.ToLower(field.Name)
		}
		out[col] = normalizeValue(v.Field(i))
	}
	return out
}

func normalizeValue(v reflect.Value) interface{} {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch val := v.Interface().(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case uuid.UUID:
		return val.String()
	case decimal.Decimal:
		f, _ := val.Float64()
		return f
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Bool:
		return v.Bool()
	case reflect.String:
		return v.String()
	default:
		return v.Interface()
	}
}

// Diff compares two normalized maps and returns only the columns whose values
// changed, each as {"old": ..., "new": ...}. An empty result means the update
// was a no-op.
func Diff(oldData, newData models.JSONB) models.JSONB {
	diff := models.JSONB{}
	for col, newVal := range newData {
		oldVal, existed := oldData[col]
		if !existed || !reflect.DeepEqual(oldVal, newVal) {
			diff[col] = map[string]interface{}{"old": oldVal, "new": newVal}
		}
	}
	for col, oldVal := range oldData {
		if _, exists := newData[col]; !exists {
			diff[col] = map[string]interface{}{"old": oldVal, "new": nil}
		}
	}
	return diff
}

// BuildLog converts one recorded change into an audit log row. Updates whose
// diff is empty return nil so callers can skip them.
func BuildLog(c Change, actorID *uuid.UUID) *models.AuditLog {
	log := &models.AuditLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    c.Action,
		TableName: c.Table,
		RecordPK:  c.PK,
	}
	switch c.Action {
	case models.ActionInsert:
		log.NewData = Normalize(c.New)
	case models.ActionDelete:
		log.OldData = Normalize(c.Old)
	case models.ActionUpdate:
		log.OldData = Normalize(c.Old)
		log.NewData = Normalize(c.New)
		log.Diff = Diff(log.OldData, log.NewData)
		if len(log.Diff) == 0 {
			return nil
		}
	}
	return log
}

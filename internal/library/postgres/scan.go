package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanComponent scans id, name, description, category, compatibility.
func scanComponent(row scannable) (*model.Component, error) {
	var c model.Component
	var (
		description sql.NullString
		category    string
		compat      []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &category, &compat); err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Category = model.ComponentCategory(category)
	if len(compat) > 0 {
		if err := json.Unmarshal(compat, &c.Compatibility); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// scanMetric scans component_id, variant_id, id, name, value, numeric_value, category.
func scanMetric(row scannable) (componentID, variantID string, m model.MetricValue, err error) {
	var (
		name     sql.NullString
		value    string
		category string
	)
	err = row.Scan(&componentID, &variantID, &m.ID, &name, &value, &m.NumericValue, &category)
	if err != nil {
		return "", "", model.MetricValue{}, err
	}
	m.Name = name.String
	m.Value = model.Rating(value)
	m.Category = model.MetricCategory(category)
	return componentID, variantID, m, nil
}

// jsonbMap encodes a map as JSONB, or NULL when it is empty.
func jsonbMap(m map[model.ComponentCategory]string) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

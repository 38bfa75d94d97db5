package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const schemaVersionKey = "schema_version"

func queryCatalog(ctx context.Context, db executor) (*model.Catalog, error) {
	cat := &model.Catalog{}

	version, err := querySchemaVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	cat.SchemaVersion = version

	comps, err := queryComponents(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := queryVariants(ctx, db, comps); err != nil {
		return nil, err
	}
	if err := queryMetrics(ctx, db, comps); err != nil {
		return nil, err
	}
	cat.Components = make([]model.Component, len(comps))
	for i, c := range comps {
		cat.Components[i] = *c
	}

	tiers, err := queryTiers(ctx, db)
	if err != nil {
		return nil, err
	}
	cat.Tiers = tiers
	return cat, nil
}

func querySchemaVersion(ctx context.Context, db executor) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT value FROM catalog_meta WHERE key = $1`, schemaVersionKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query schema version: %w", err)
	}
	return v, nil
}

func queryComponents(ctx context.Context, db executor) ([]*model.Component, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, category, compatibility
		FROM components ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	var out []*model.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func queryVariants(ctx context.Context, db executor, comps []*model.Component) error {
	byID := indexComponents(comps)
	rows, err := db.QueryContext(ctx, `
		SELECT component_id, id, name, description
		FROM variants ORDER BY component_id, position`)
	if err != nil {
		return fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var componentID string
		var v model.ConfigurationVariant
		if err := rows.Scan(&componentID, &v.ID, &v.Name, &v.Description); err != nil {
			return fmt.Errorf("scan variant: %w", err)
		}
		if c, ok := byID[componentID]; ok {
			c.Variants = append(c.Variants, v)
		}
	}
	return rows.Err()
}

func queryMetrics(ctx context.Context, db executor, comps []*model.Component) error {
	byID := indexComponents(comps)
	rows, err := db.QueryContext(ctx, `
		SELECT component_id, variant_id, id, name, value, numeric_value, category
		FROM metrics ORDER BY component_id, variant_id, position`)
	if err != nil {
		return fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		componentID, variantID, m, err := scanMetric(rows)
		if err != nil {
			return fmt.Errorf("scan metric: %w", err)
		}
		c, ok := byID[componentID]
		if !ok {
			continue
		}
		if variantID == "" {
			c.Metrics = append(c.Metrics, m)
			continue
		}
		if v, ok := c.Variant(variantID); ok {
			v.Metrics = append(v.Metrics, m)
		}
	}
	return rows.Err()
}

func queryTiers(ctx context.Context, db executor) ([]model.TierSpec, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, requirements
		FROM tiers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query tiers: %w", err)
	}
	defer rows.Close()

	var out []model.TierSpec
	for rows.Next() {
		var t model.TierSpec
		var reqs []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &reqs); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		if len(reqs) > 0 {
			if err := json.Unmarshal(reqs, &t.Requirements); err != nil {
				return nil, fmt.Errorf("tier %s requirements: %w", t.ID, err)
			}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func replaceCatalog(ctx context.Context, db executor, cat *model.Catalog) error {
	for _, table := range []string{"metrics", "variants", "components", "tiers"} {
		if _, err := db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO catalog_meta (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		schemaVersionKey, cat.SchemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}

	for i := range cat.Components {
		if err := insertComponent(ctx, db, i, &cat.Components[i]); err != nil {
			return err
		}
	}

	for i, t := range cat.Tiers {
		reqs, err := json.Marshal(t.Requirements)
		if err != nil {
			return fmt.Errorf("encode tier %s requirements: %w", t.ID, err)
		}
		if _, err := db.ExecContext(ctx, `
			INSERT INTO tiers (id, position, name, description, requirements)
			VALUES ($1, $2, $3, $4, $5)`,
			t.ID, i, t.Name, t.Description, reqs); err != nil {
			return fmt.Errorf("insert tier %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertComponent(ctx context.Context, db executor, pos int, c *model.Component) error {
	compat, err := jsonbMap(c.Compatibility)
	if err != nil {
		return fmt.Errorf("encode component %s compatibility: %w", c.ID, err)
	}
	if _, err := db.ExecContext(ctx, `
		INSERT INTO components (id, position, name, description, category, compatibility)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, pos, c.Name, c.Description, string(c.Category), compat); err != nil {
		return fmt.Errorf("insert component %s: %w", c.ID, err)
	}

	if err := insertMetrics(ctx, db, c.ID, "", c.Metrics); err != nil {
		return err
	}
	for i, v := range c.Variants {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO variants (component_id, id, position, name, description)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, v.ID, i, v.Name, v.Description); err != nil {
			return fmt.Errorf("insert variant %s/%s: %w", c.ID, v.ID, err)
		}
		if err := insertMetrics(ctx, db, c.ID, v.ID, v.Metrics); err != nil {
			return err
		}
	}
	return nil
}

func insertMetrics(ctx context.Context, db executor, componentID, variantID string, metrics []model.MetricValue) error {
	for i, m := range metrics {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO metrics (component_id, variant_id, id, position, name, value, numeric_value, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			componentID, variantID, m.ID, i, m.Name, string(m.Value), m.NumericValue, string(m.Category)); err != nil {
			return fmt.Errorf("insert metric %s/%s: %w", componentID, m.ID, err)
		}
	}
	return nil
}

func indexComponents(comps []*model.Component) map[string]*model.Component {
	byID := make(map[string]*model.Component, len(comps))
	for _, c := range comps {
		byID[c.ID] = c
	}
	return byID
}

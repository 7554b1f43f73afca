package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/teligen-kh/aicounsel/store"
)

func marshalKeywords(keywords []string) (string, error) {
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return "", fmt.Errorf("failed to marshal keywords: %w", err)
	}
	return string(raw), nil
}

func unmarshalKeywords(raw string) ([]string, error) {
	keywords := []string{}
	if raw == "" {
		return keywords, nil
	}
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	return keywords, nil
}

func (d *DB) CreateRule(ctx context.Context, create *store.Rule) (*store.Rule, error) {
	keywords, err := marshalKeywords(create.Keywords)
	if err != nil {
		return nil, err
	}

	fields := []string{"type", "keywords", "pattern", "category", "priority", "active"}
	placeholderValues := []any{
		string(create.Type), keywords, create.Pattern,
		create.Category, create.Priority, create.Active,
	}

	stmt := `INSERT INTO rule (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	return create, nil
}

func (d *DB) ListRules(ctx context.Context, find *store.FindRule) ([]*store.Rule, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "rule.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "rule.category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Active; v != nil {
		where, args = append(where, "rule.active = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, type, keywords, pattern, category, priority, active, created_ts, updated_ts
		FROM rule
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY rule.priority ASC, rule.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Rule, 0)
	for rows.Next() {
		var rule store.Rule
		var ruleType, keywords string
		if err := rows.Scan(
			&rule.ID,
			&ruleType,
			&keywords,
			&rule.Pattern,
			&rule.Category,
			&rule.Priority,
			&rule.Active,
			&rule.CreatedTs,
			&rule.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rule.Type = store.RuleType(ruleType)
		if rule.Keywords, err = unmarshalKeywords(keywords); err != nil {
			return nil, err
		}
		list = append(list, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateRule(ctx context.Context, update *store.UpdateRule) error {
	set, args := []string{}, []any{}

	if v := update.Keywords; v != nil {
		keywords, err := marshalKeywords(*v)
		if err != nil {
			return err
		}
		set, args = append(set, "keywords = "+placeholder(len(args)+1)), append(args, keywords)
	}
	if v := update.Pattern; v != nil {
		set, args = append(set, "pattern = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Active; v != nil {
		set, args = append(set, "active = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `UPDATE rule SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	return nil
}

func (d *DB) DeleteRule(ctx context.Context, delete *store.DeleteRule) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM rule WHERE id = $1`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teligen-kh/aicounsel/store"
)

func (d *DB) CreatePattern(ctx context.Context, create *store.Pattern) (*store.Pattern, error) {
	fields := []string{"uid", "text", "category", "priority", "accuracy", "usage_count", "active", "source"}
	placeholderValues := []any{
		create.UID, create.Text, create.Category, create.Priority,
		create.Accuracy, create.UsageCount, create.Active, create.Source,
	}

	stmt := `INSERT INTO pattern (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create pattern: %w", err)
	}

	return create, nil
}

func (d *DB) ListPatterns(ctx context.Context, find *store.FindPattern) ([]*store.Pattern, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "pattern.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "pattern.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Category; v != nil {
		where, args = append(where, "pattern.category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Active; v != nil {
		where, args = append(where, "pattern.active = "+placeholder(len(args)+1)), append(args, *v)
	}

	// Lower priority first; among equals the most recently curated wins.
	query := `
		SELECT
			id, uid, text, category, priority, accuracy,
			usage_count, active, source, created_ts, updated_ts
		FROM pattern
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY pattern.priority ASC, pattern.updated_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Pattern, 0)
	for rows.Next() {
		var pattern store.Pattern
		if err := rows.Scan(
			&pattern.ID,
			&pattern.UID,
			&pattern.Text,
			&pattern.Category,
			&pattern.Priority,
			&pattern.Accuracy,
			&pattern.UsageCount,
			&pattern.Active,
			&pattern.Source,
			&pattern.CreatedTs,
			&pattern.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		list = append(list, &pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}

	return list, nil
}

func (d *DB) UpdatePattern(ctx context.Context, update *store.UpdatePattern) error {
	set, args := []string{}, []any{}

	if v := update.Text; v != nil {
		set, args = append(set, "text = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Priority; v != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Accuracy; v != nil {
		set, args = append(set, "accuracy = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Active; v != nil {
		set, args = append(set, "active = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Source; v != nil {
		set, args = append(set, "source = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())
	args = append(args, update.ID)

	stmt := `UPDATE pattern SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update pattern: %w", err)
	}

	return nil
}

func (d *DB) DeletePattern(ctx context.Context, delete *store.DeletePattern) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM pattern WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete pattern: %w", err)
	}
	return nil
}

func (d *DB) IncrementPatternUsage(ctx context.Context, id int32) error {
	if _, err := d.db.ExecContext(ctx, `UPDATE pattern SET usage_count = usage_count + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to increment pattern usage: %w", err)
	}
	return nil
}

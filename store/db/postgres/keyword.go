package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teligen-kh/aicounsel/store"
)

func (d *DB) ListKeywordSets(ctx context.Context, find *store.FindKeywordSet) ([]*store.KeywordSet, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Category; v != nil {
		where, args = append(where, "keyword_set.category = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT category, keywords, updated_ts
		FROM keyword_set
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY keyword_set.category ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword sets: %w", err)
	}
	defer rows.Close()

	list := make([]*store.KeywordSet, 0)
	for rows.Next() {
		var set store.KeywordSet
		var keywords string
		if err := rows.Scan(&set.Category, &keywords, &set.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan keyword set: %w", err)
		}
		if set.Keywords, err = unmarshalKeywords(keywords); err != nil {
			return nil, err
		}
		list = append(list, &set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keyword sets: %w", err)
	}

	return list, nil
}

func (d *DB) UpsertKeywordSet(ctx context.Context, upsert *store.KeywordSet) (*store.KeywordSet, error) {
	keywords, err := marshalKeywords(upsert.Keywords)
	if err != nil {
		return nil, err
	}

	upsert.UpdatedTs = time.Now().Unix()
	stmt := `
		INSERT INTO keyword_set (category, keywords, updated_ts)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE SET keywords = EXCLUDED.keywords, updated_ts = EXCLUDED.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.Category, keywords, upsert.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert keyword set: %w", err)
	}

	return upsert, nil
}

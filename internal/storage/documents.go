package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dukbill/tally/internal/model"
	"github.com/dukbill/tally/internal/service"
)

// SaveDocuments saves a batch of classified document records. Rows are
// deduplicated by identity hash; a re-imported document only overwrites
// an existing row when its classification timestamp is newer, so
// re-running an import is always safe.
func (s *SQLiteStorage) SaveDocuments(ctx context.Context, docs []model.Document) (*service.ImportStats, error) {
	// Validate inputs
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDocuments(docs); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, hash, client_id, source, category_label, classified_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			category_label = excluded.category_label,
			classified_at = excluded.classified_at
		WHERE excluded.classified_at > documents.classified_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	stats := &service.ImportStats{Total: len(docs)}

	for _, doc := range docs {
		// Generate hash if not already set
		if doc.Hash == "" {
			doc.Hash = doc.GenerateHash()
		}

		// Store UTC so the conflict clause compares chronologically.
		res, execErr := stmt.ExecContext(ctx,
			doc.ID,
			doc.Hash,
			doc.ClientID,
			doc.Source,
			doc.CategoryLabel,
			doc.ClassifiedAt.UTC(),
		)
		if execErr != nil {
			return nil, fmt.Errorf("failed to save document %s: %w", doc.ID, execErr)
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", raErr)
		}
		if affected > 0 {
			stats.Imported++
		} else {
			stats.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit documents: %w", err)
	}

	slog.Debug("Saved documents",
		"total", stats.Total,
		"imported", stats.Imported,
		"skipped", stats.Skipped)

	return stats, nil
}

// DocumentCount returns the number of stored documents matching filter.
func (s *SQLiteStorage) DocumentCount(ctx context.Context, filter service.DocumentFilter) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	query := "SELECT COUNT(*) FROM documents"
	where, args := documentFilterClause(filter)
	query += where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// ForEachDocument streams stored documents matching filter to fn in
// classification order. Iteration stops at the first error fn returns.
func (s *SQLiteStorage) ForEachDocument(ctx context.Context, filter service.DocumentFilter, fn func(model.Document) error) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("%w: fn", ErrNilParameter)
	}

	query := `
		SELECT id, hash, client_id, source, category_label, classified_at
		FROM documents`
	where, args := documentFilterClause(filter)
	query += where + " ORDER BY classified_at, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		doc, scanErr := scanDocumentRow(rows)
		if scanErr != nil {
			return scanErr
		}
		if fnErr := fn(doc); fnErr != nil {
			return fnErr
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate documents: %w", err)
	}
	return nil
}

// documentFilterClause builds the WHERE clause for a document filter.
func documentFilterClause(filter service.DocumentFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.ClientID != "" {
		conditions = append(conditions, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}

	if len(conditions) == 0 {
		return "", nil
	}

	clause := " WHERE " + conditions[0]
	for _, cond := range conditions[1:] {
		clause += " AND " + cond
	}
	return clause, args
}

// scanDocumentRow reads one document from the current row.
func scanDocumentRow(rows *sql.Rows) (model.Document, error) {
	var doc model.Document
	var source sql.NullString
	var label sql.NullString
	var classifiedAt sql.NullTime

	if err := rows.Scan(&doc.ID, &doc.Hash, &doc.ClientID, &source, &label, &classifiedAt); err != nil {
		return model.Document{}, fmt.Errorf("failed to scan document row: %w", err)
	}

	if source.Valid {
		doc.Source = source.String
	}
	if label.Valid {
		value := label.String
		doc.CategoryLabel = &value
	}
	if classifiedAt.Valid {
		doc.ClassifiedAt = classifiedAt.Time.UTC()
	}

	return doc, nil
}

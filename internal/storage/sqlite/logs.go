package sqlite

import (
	"fmt"
	"time"

	"github.com/mandalnilabja/sommelier/internal/storage/models"
)

// LogRequest stores a request log entry
func (s *Storage) LogRequest(log *models.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if log.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidInput)
	}

	if log.ID == "" {
		log.ID = generateID("log")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (id, request_id, model, provider, lang, price_range,
			message_count, prompt_tokens, completion_tokens, total_tokens,
			status_code, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.Model, log.Provider, log.Lang, nullString(log.PriceRange),
		log.MessageCount, log.PromptTokens, log.CompletionTokens, log.TotalTokens,
		log.StatusCode, nullString(log.ErrorMessage), log.DurationMs, formatTime(log.CreatedAt))

	return err
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Storage) GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT id, request_id, model, provider, lang, COALESCE(price_range, ''),
		message_count, prompt_tokens, completion_tokens, total_tokens,
		status_code, COALESCE(error_message, ''), duration_ms, created_at
		FROM request_logs WHERE 1=1`

	var args []interface{}

	if filter.Model != "" {
		query += " AND model = ?"
		args = append(args, filter.Model)
	}
	if filter.Lang != "" {
		query += " AND lang = ?"
		args = append(args, filter.Lang)
	}
	if filter.StatusCode != nil {
		query += " AND status_code = ?"
		args = append(args, *filter.StatusCode)
	}
	if filter.StartDate != nil {
		query += " AND created_at >= ?"
		args = append(args, formatTime(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query += " AND created_at <= ?"
		args = append(args, formatTime(*filter.EndDate))
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.RequestLog
	for rows.Next() {
		var log models.RequestLog
		var createdAt string

		err := rows.Scan(&log.ID, &log.RequestID, &log.Model, &log.Provider, &log.Lang, &log.PriceRange,
			&log.MessageCount, &log.PromptTokens, &log.CompletionTokens, &log.TotalTokens,
			&log.StatusCode, &log.ErrorMessage, &log.DurationMs, &createdAt)
		if err != nil {
			return nil, err
		}

		log.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// DeleteRequestLogs removes logs created before olderThan
func (s *Storage) DeleteRequestLogs(olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM request_logs WHERE created_at < ?", formatTime(olderThan))
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

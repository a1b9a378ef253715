package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const entryColumns = `id, start_time, end_time, project_id, comment, created_at`

// CreateEntry assigns an ID and persists the draft. Overlap checks are the
// caller's job.
func (s *Store) CreateEntry(d EntryDraft) (*Entry, error) {
	if !d.End.After(d.Start) {
		return nil, ErrInvalidInterval
	}
	if d.ProjectID == "" {
		d.ProjectID = DefaultProjectID
	}
	id := "e_" + uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO entries (id, start_time, end_time, project_id, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, formatTime(d.Start), formatTime(d.End), d.ProjectID, d.Comment, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return s.GetEntry(id)
}

// GetEntry returns nil, nil when no entry has the given id.
func (s *Store) GetEntry(id string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

// UpdateEntry merges patch into the entry and returns the stored result, or
// nil, nil if the id is unknown.
func (s *Store) UpdateEntry(id string, p EntryPatch) (*Entry, error) {
	cur, err := s.GetEntry(id)
	if err != nil || cur == nil {
		return nil, err
	}
	if p.Start != nil {
		cur.Start = *p.Start
	}
	if p.End != nil {
		cur.End = *p.End
	}
	if p.ProjectID != nil {
		cur.ProjectID = *p.ProjectID
	}
	if p.Comment != nil {
		cur.Comment = *p.Comment
	}
	if !cur.End.After(cur.Start) {
		return nil, ErrInvalidInterval
	}

	_, err = s.db.Exec(
		`UPDATE entries SET start_time = ?, end_time = ?, project_id = ?, comment = ? WHERE id = ?`,
		formatTime(cur.Start), formatTime(cur.End), cur.ProjectID, cur.Comment, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry %s: %w", id, err)
	}
	return s.GetEntry(id)
}

// DeleteEntry reports whether an entry was removed.
func (s *Store) DeleteEntry(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListEntries returns entries whose start lies in [from, to], ordered by start.
func (s *Store) ListEntries(from, to time.Time) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryColumns+` FROM entries WHERE start_time >= ? AND start_time <= ? ORDER BY start_time, id`,
		formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DailySummaries aggregates entries starting in [from, to) per local day and
// project. Days are keyed as YYYY-MM-DD in local time.
func (s *Store) DailySummaries(from, to time.Time) ([]DailySummary, error) {
	entries, err := s.ListEntries(from, to.Add(-time.Second))
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	projects, err := s.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	byID := make(map[string]Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	type key struct{ date, project string }
	index := make(map[key]int)
	var summaries []DailySummary
	for _, e := range entries {
		k := key{e.Start.Format("2006-01-02"), e.ProjectID}
		i, ok := index[k]
		if !ok {
			p := byID[e.ProjectID]
			summaries = append(summaries, DailySummary{
				Date:         k.date,
				ProjectID:    e.ProjectID,
				ProjectName:  p.Name,
				ProjectColor: p.Color,
			})
			i = len(summaries) - 1
			index[k] = i
		}
		summaries[i].TotalMinutes += int(e.Duration().Minutes())
		summaries[i].EntryCount++
	}
	return summaries, nil
}

func scanEntry(row scanner) (*Entry, error) {
	e := &Entry{}
	var start, end, createdAt string
	if err := row.Scan(&e.ID, &start, &end, &e.ProjectID, &e.Comment, &createdAt); err != nil {
		return nil, err
	}
	e.Start = parseTime(start)
	e.End = parseTime(end)
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

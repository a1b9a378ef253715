package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const projectColumns = `id, name, color, created_at, updated_at`

func (s *Store) AddProject(name, color string) (*Project, error) {
	if color == "" {
		color = defaultProjectColor
	}
	id := "p_" + uuid.NewString()
	now := formatTime(time.Now())
	_, err := s.db.Exec(
		`INSERT INTO projects (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, color, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(id)
}

// GetProject returns nil, nil when no project has the given id.
func (s *Store) GetProject(id string) (*Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

// UpdateProject merges patch into the project. It returns nil, nil for an
// unknown id.
func (s *Store) UpdateProject(id string, p ProjectPatch) (*Project, error) {
	cur, err := s.GetProject(id)
	if err != nil || cur == nil {
		return nil, err
	}
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Color != nil {
		cur.Color = *p.Color
	}
	_, err = s.db.Exec(
		`UPDATE projects SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		cur.Name, cur.Color, formatTime(time.Now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return s.GetProject(id)
}

// DeleteProject removes a project and moves its entries to the default
// project. The default project cannot be deleted; false is returned for it
// and for unknown ids.
func (s *Store) DeleteProject(id string) (bool, error) {
	if id == DefaultProjectID {
		return false, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE entries SET project_id = ? WHERE project_id = ?`, DefaultProjectID, id); err != nil {
		return false, fmt.Errorf("reassign entries of %s: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete project: %w", err)
	}
	return true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*Project, error) {
	p := &Project{}
	var createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Color, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

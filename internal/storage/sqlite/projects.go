package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"devdesk/internal/models"
)

const projectColumns = `id, name, description, color, repository_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (models.Project, error) {
	var (
		p                    models.Project
		desc, color, repo    sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &desc, &color, &repo, &createdAt, &updatedAt); err != nil {
		return models.Project{}, err
	}
	p.Description = stringPtr(desc)
	p.Color = stringPtr(color)
	p.RepositoryURL = stringPtr(repo)

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Project{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// ListProjects retrieves all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject persists a new project. Only the name is required.
func (s *Store) CreateProject(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return models.Project{}, models.Invalid("name", "Name is required")
	}

	id := newID()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(`+projectColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(*in.Name), nullIfBlank(in.Description.Ptr()), nullIfBlank(in.Color.Ptr()),
		nullIfBlank(in.RepositoryURL.Ptr()), now, now)
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a single project by id.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.NotFound("project")
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// UpdateProject applies the supplied fields to an existing project.
func (s *Store) UpdateProject(ctx context.Context, id string, in models.ProjectInput) (models.Project, error) {
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	name := current.Name
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return models.Project{}, models.Invalid("name", "project name must not be empty")
		}
		name = strings.TrimSpace(*in.Name)
	}
	description := current.Description
	if in.Description.Set {
		description = in.Description.Ptr()
	}
	color := current.Color
	if in.Color.Set {
		color = in.Color.Ptr()
	}
	repo := current.RepositoryURL
	if in.RepositoryURL.Set {
		repo = in.RepositoryURL.Ptr()
	}

	_, err = s.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, color = ?, repository_url = ?, updated_at = ? WHERE id = ?`,
		name, nullIfBlank(description), nullIfBlank(color), nullIfBlank(repo), s.timestamp(), id)
	if err != nil {
		return models.Project{}, fmt.Errorf("update project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project. Its items become unassigned.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound("project")
	}
	return nil
}

func (s *Store) projectExists(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM projects WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return n > 0, nil
}

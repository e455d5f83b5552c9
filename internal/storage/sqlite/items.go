package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"devdesk/internal/models"
)

const itemSelect = `SELECT i.id, i.type, i.title, i.description, i.status, i.priority, i.project_id,
        i.estimated_hours, i.actual_hours, i.created_at, i.updated_at,
        p.id, p.name, p.description, p.color, p.repository_url, p.created_at, p.updated_at
    FROM items i LEFT JOIN projects p ON p.id = i.project_id`

// itemOrder sorts HIGH before MEDIUM before LOW, newest first within a priority.
const itemOrder = ` ORDER BY CASE i.priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
    i.created_at DESC, i.rowid DESC`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanItem(row rowScanner) (models.Item, error) {
	var (
		it                     models.Item
		desc, projectID        sql.NullString
		est, actual            sql.NullFloat64
		createdAt, updatedAt   string
		pID, pName, pDesc      sql.NullString
		pColor, pRepo          sql.NullString
		pCreatedAt, pUpdatedAt sql.NullString
	)
	err := row.Scan(&it.ID, &it.Type, &it.Title, &desc, &it.Status, &it.Priority, &projectID,
		&est, &actual, &createdAt, &updatedAt,
		&pID, &pName, &pDesc, &pColor, &pRepo, &pCreatedAt, &pUpdatedAt)
	if err != nil {
		return models.Item{}, err
	}
	it.Description = stringPtr(desc)
	it.ProjectID = stringPtr(projectID)
	it.EstimatedHours = floatPtr(est)
	it.ActualHours = floatPtr(actual)
	if it.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Item{}, err
	}
	if it.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Item{}, err
	}

	if pID.Valid {
		p := &models.Project{
			ID:            pID.String,
			Name:          pName.String,
			Description:   stringPtr(pDesc),
			Color:         stringPtr(pColor),
			RepositoryURL: stringPtr(pRepo),
		}
		if p.CreatedAt, err = parseTime(pCreatedAt.String); err != nil {
			return models.Item{}, err
		}
		if p.UpdatedAt, err = parseTime(pUpdatedAt.String); err != nil {
			return models.Item{}, err
		}
		it.Project = p
	}
	return it, nil
}

// ListItems returns the items matching every supplied filter, most urgent and
// newest first. Search is a case-insensitive substring match on the title.
func (s *Store) ListItems(ctx context.Context, f models.ItemFilter) ([]models.Item, error) {
	query := itemSelect + ` WHERE 1=1`
	var args []any

	if f.Type != "" {
		if _, err := models.ParseItemType(string(f.Type)); err != nil {
			return nil, err
		}
		query += ` AND i.type = ?`
		args = append(args, f.Type)
	}
	if f.Status != "" {
		if _, err := models.ParseStatus(string(f.Status)); err != nil {
			return nil, err
		}
		query += ` AND i.status = ?`
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		if _, err := models.ParsePriority(string(f.Priority)); err != nil {
			return nil, err
		}
		query += ` AND i.priority = ?`
		args = append(args, f.Priority)
	}
	if f.ProjectID != "" {
		query += ` AND i.project_id = ?`
		args = append(args, f.ProjectID)
	}
	if f.Search != "" {
		query += ` AND i.title LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
	}

	rows, err := s.db.QueryContext(ctx, query+itemOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem retrieves an item and its project by id.
func (s *Store) GetItem(ctx context.Context, id string) (models.Item, error) {
	it, err := scanItem(s.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, models.NotFound("item")
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// CreateItem inserts a new item, filling status and priority defaults.
func (s *Store) CreateItem(ctx context.Context, in models.NewItem) (models.Item, error) {
	if in.Type == "" {
		return models.Item{}, models.Invalid("type", "Type and title are required")
	}
	if _, err := models.ParseItemType(string(in.Type)); err != nil {
		return models.Item{}, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return models.Item{}, models.Invalid("title", "Type and title are required")
	}
	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if _, err := models.ParseStatus(string(in.Status)); err != nil {
		return models.Item{}, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if _, err := models.ParsePriority(string(in.Priority)); err != nil {
		return models.Item{}, err
	}
	projectID := nullIfBlank(in.ProjectID)
	if projectID != nil {
		if err := s.checkProject(ctx, projectID.(string)); err != nil {
			return models.Item{}, err
		}
	}

	id := newID()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx, `INSERT INTO items(id, type, title, description, status, priority, project_id,
            estimated_hours, actual_hours, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.Type, strings.TrimSpace(in.Title), nullIfBlank(in.Description), in.Status, in.Priority, projectID,
		nullFloat(in.EstimatedHours), nullFloat(in.ActualHours), now, now)
	if err != nil {
		return models.Item{}, fmt.Errorf("insert item: %w", err)
	}
	s.logger.Debug("item created", "id", id, "type", in.Type)
	return s.GetItem(ctx, id)
}

// UpdateItem applies a partial update. Fields absent from the patch keep their
// stored values; an invalid enum leaves the row untouched.
func (s *Store) UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (models.Item, error) {
	current, err := s.GetItem(ctx, id)
	if err != nil {
		return models.Item{}, err
	}

	title := current.Title
	description := current.Description
	status := current.Status
	priority := current.Priority
	projectID := current.ProjectID
	estimated := current.EstimatedHours
	actual := current.ActualHours

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Item{}, models.Invalid("title", "title must not be empty")
		}
		title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description.Set {
		description = patch.Description.Ptr()
	}
	if patch.Status != nil {
		if _, err := models.ParseStatus(string(*patch.Status)); err != nil {
			return models.Item{}, err
		}
		status = *patch.Status
	}
	if patch.Priority != nil {
		if _, err := models.ParsePriority(string(*patch.Priority)); err != nil {
			return models.Item{}, err
		}
		priority = *patch.Priority
	}
	if patch.ProjectID.Set {
		projectID = patch.ProjectID.Ptr()
		if projectID != nil && *projectID == "" {
			projectID = nil
		}
		if projectID != nil {
			if err := s.checkProject(ctx, *projectID); err != nil {
				return models.Item{}, err
			}
		}
	}
	if patch.EstimatedHours.Set {
		estimated = patch.EstimatedHours.Ptr()
	}
	if patch.ActualHours.Set {
		actual = patch.ActualHours.Ptr()
	}

	_, err = s.db.ExecContext(ctx, `UPDATE items SET title = ?, description = ?, status = ?, priority = ?, project_id = ?,
            estimated_hours = ?, actual_hours = ?, updated_at = ? WHERE id = ?`,
		title, nullIfBlank(description), status, priority, nullIfBlank(projectID),
		nullFloat(estimated), nullFloat(actual), s.timestamp(), id)
	if err != nil {
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	if status != current.Status {
		s.logger.Debug("item moved", "id", id, "from", current.Status, "to", status)
	}
	return s.GetItem(ctx, id)
}

// DeleteItem removes an item by id.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NotFound("item")
	}
	return nil
}

// ItemStats counts items by type, status and priority.
func (s *Store) ItemStats(ctx context.Context) (models.ItemStats, error) {
	var st models.ItemStats
	err := s.db.QueryRowContext(ctx, `SELECT
            COUNT(1),
            COALESCE(SUM(CASE WHEN type = 'TASK' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN type = 'BUG' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'TODO' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'IN_PROGRESS' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'DONE' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN priority = 'HIGH' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN type = 'BUG' AND status = 'IN_PROGRESS' THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN type = 'TASK' AND priority = 'HIGH' THEN 1 ELSE 0 END), 0)
        FROM items`).
		Scan(&st.Total, &st.Tasks, &st.Bugs, &st.Todo, &st.InProgress, &st.Done,
			&st.HighPriority, &st.BugsInProgress, &st.HighPriorityTasks)
	if err != nil {
		return models.ItemStats{}, fmt.Errorf("item stats: %w", err)
	}
	return st, nil
}

func (s *Store) checkProject(ctx context.Context, id string) error {
	ok, err := s.projectExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.Invalid("projectId", "project %s does not exist", id)
	}
	return nil
}

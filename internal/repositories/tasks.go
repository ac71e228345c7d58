package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// TaskRepository persists [models.PublishTask] rows together with their
// per-account [models.TaskPlatform] entries.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new [TaskRepository] with the given database connection
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a task and all of its entries in one transaction. The
// task keeps its pre-generated ID so entries created before persistence
// already reference it; the sequence is assigned here.
func (r *TaskRepository) CreateTask(task *models.PublishTask) error {
	if err := task.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "publish_tasks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	task.SetSequence(sequence)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	taskQuery := `
		INSERT INTO publish_tasks (id, sequence, video_path, title, description, tags, cover_path, is_original, status, scheduled_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(taskQuery, task.ID(), sequence, task.VideoPath(), task.Title(), task.Description(),
		joinTags(task.Tags()), task.CoverPath(), task.IsOriginal(), task.Status(), task.ScheduledAt(),
		task.CreatedAt(), task.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	entryQuery := `
		INSERT INTO publish_task_platforms (id, task_id, account_id, custom_title, custom_description, custom_tags, status, error_code, error_message, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, entry := range task.Platforms() {
		_, err = tx.Exec(entryQuery, entry.ID(), entry.TaskID(), entry.AccountID(),
			entry.CustomTitle(), entry.CustomDescription(), joinTags(entry.CustomTags()),
			entry.Status(), string(entry.ErrorCode()), entry.ErrorMessage(), entry.PublishedAt(),
			entry.CreatedAt(), entry.UpdatedAt())
		if err != nil {
			return fmt.Errorf("failed to insert task entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task: %w", err)
	}

	return nil
}

// UpdateTaskStatus persists the task's current status.
func (r *TaskRepository) UpdateTaskStatus(task *models.PublishTask) error {
	now := time.Now()
	task.SetUpdatedAt(now)

	query := `
		UPDATE publish_tasks
		SET status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, task.Status(), now, task.ID())
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, task.ID())
	}

	return nil
}

// UpdateEntry persists an entry's status, error fields, and publish timestamp.
func (r *TaskRepository) UpdateEntry(entry *models.TaskPlatform) error {
	now := time.Now()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE publish_task_platforms
		SET status = ?, error_code = ?, error_message = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, entry.Status(), string(entry.ErrorCode()), entry.ErrorMessage(),
		entry.PublishedAt(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update task entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task entry not found: %s", entry.ID())
	}

	return nil
}

// Get retrieves a task with all of its entries.
func (r *TaskRepository) Get(id string) (*models.PublishTask, error) {
	query := `
		SELECT id, sequence, video_path, title, description, tags, cover_path, is_original, status, scheduled_at, created_at, updated_at
		FROM publish_tasks
		WHERE id = ?
	`

	task, err := scanTask(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}

	entries, err := r.entriesFor(task.ID())
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		task.AddPlatform(entry)
	}

	return task, nil
}

// List retrieves tasks newest-first. Supported criteria: "status" and "limit".
func (r *TaskRepository) List(criteria map[string]any) ([]*models.PublishTask, error) {
	query := `
		SELECT id, sequence, video_path, title, description, tags, cover_path, is_original, status, scheduled_at, created_at, updated_at
		FROM publish_tasks
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.PublishTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, task := range tasks {
		entries, err := r.entriesFor(task.ID())
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			task.AddPlatform(entry)
		}
	}

	return tasks, nil
}

func (r *TaskRepository) entriesFor(taskID string) ([]*models.TaskPlatform, error) {
	query := `
		SELECT id, task_id, account_id, custom_title, custom_description, custom_tags, status, error_code, error_message, published_at, created_at, updated_at
		FROM publish_task_platforms
		WHERE task_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.TaskPlatform
	for rows.Next() {
		var (
			id           string
			tID          string
			accountID    string
			customTitle  sql.NullString
			customDesc   sql.NullString
			customTags   sql.NullString
			status       string
			errorCode    sql.NullString
			errorMessage sql.NullString
			publishedAt  sql.NullTime
			createdAt    time.Time
			updatedAt    time.Time
		)

		err := rows.Scan(&id, &tID, &accountID, &customTitle, &customDesc, &customTags,
			&status, &errorCode, &errorMessage, &publishedAt, &createdAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task entry: %w", err)
		}

		entry := models.NewTaskPlatform(tID, accountID)
		entry.SetID(id)
		entry.SetOverrides(customTitle.String, customDesc.String, splitTags(customTags.String))
		entry.Restore(models.EntryStatus(status), shared.Code(errorCode.String), errorMessage.String)
		if publishedAt.Valid {
			entry.SetPublishedAt(&publishedAt.Time)
		}
		entry.SetCreatedAt(createdAt)
		entry.SetUpdatedAt(updatedAt)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func scanTask(row rowScanner) (*models.PublishTask, error) {
	var (
		id          string
		sequence    int
		videoPath   string
		title       string
		description sql.NullString
		tags        sql.NullString
		coverPath   sql.NullString
		isOriginal  bool
		status      string
		scheduledAt sql.NullTime
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &sequence, &videoPath, &title, &description, &tags, &coverPath,
		&isOriginal, &status, &scheduledAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	task := models.NewPublishTask(sequence, videoPath, title, description.String, splitTags(tags.String))
	task.SetID(id)
	task.SetCoverPath(coverPath.String)
	task.SetIsOriginal(isOriginal)
	task.RestoreStatus(models.TaskStatus(status))
	if scheduledAt.Valid {
		task.SetScheduledAt(&scheduledAt.Time)
	}
	task.SetCreatedAt(createdAt)
	task.SetUpdatedAt(updatedAt)

	return task, nil
}

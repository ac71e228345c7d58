package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/shared"
)

// TemplateRepository persists [models.Template] presets.
type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new template with a generated ID.
func (r *TemplateRepository) Create(template *models.Template) error {
	template.SetID(shared.GenerateID())

	if err := template.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO templates (id, name, title_template, description_template, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, template.ID(), template.Name(), template.TitleText(),
		template.Description(), joinTags(template.TagList()), template.CreatedAt(), template.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	return nil
}

// Get retrieves a template by ID.
func (r *TemplateRepository) Get(id string) (*models.Template, error) {
	query := `
		SELECT id, name, title_template, description_template, tags, created_at, updated_at
		FROM templates
		WHERE id = ?
	`

	template, err := scanTemplate(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query template: %w", err)
	}

	return template, nil
}

// GetByName retrieves a template by its unique name.
func (r *TemplateRepository) GetByName(name string) (*models.Template, error) {
	query := `
		SELECT id, name, title_template, description_template, tags, created_at, updated_at
		FROM templates
		WHERE name = ?
	`

	template, err := scanTemplate(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query template: %w", err)
	}

	return template, nil
}

// Delete removes a template permanently.
func (r *TemplateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTemplateNotFound, id)
	}

	return nil
}

// List retrieves all templates ordered by name.
func (r *TemplateRepository) List() ([]*models.Template, error) {
	query := `
		SELECT id, name, title_template, description_template, tags, created_at, updated_at
		FROM templates
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return templates, nil
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var (
		id          string
		name        string
		title       sql.NullString
		description sql.NullString
		tags        sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(&id, &name, &title, &description, &tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	template := models.NewTemplate(name, title.String, description.String, splitTags(tags.String))
	template.SetID(id)
	template.SetCreatedAt(createdAt)
	template.SetUpdatedAt(updatedAt)

	return template, nil
}

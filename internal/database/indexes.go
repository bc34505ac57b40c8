package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes creates the secondary indexes the list endpoints depend on.
// Unique and primary-key indexes are declared on the models themselves.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"projects", "idx_projects_owner_id", "owner_id"},
		{"projects", "idx_projects_created_at", "created_at"},
		{"projects", "idx_projects_status", "status"},

		{"project_members", "idx_project_members_user_id", "user_id"},

		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
		{"tasks", "idx_tasks_created_by_id", "created_by_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_created_at", "created_at"},

		{"task_comments", "idx_task_comments_task_id", "task_id"},

		{"users", "idx_users_is_active", "is_active"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Scan(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

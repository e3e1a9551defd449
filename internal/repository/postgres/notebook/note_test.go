package notebook

import (
	"strings"
	"testing"
	"time"

	models "cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/repository/postgres"
)

// newTestNoteRepo builds a repository without a pool; only query construction is exercised.
func newTestNoteRepo() *PostgresNoteRepository {
	return &PostgresNoteRepository{tables: postgres.NewTableNames()}
}

func TestNoteListQuery_RootFolderUsesIsNull(t *testing.T) {
	r := newTestNoteRepo()
	filter := &models.NoteFilter{OwnerID: "u1"}
	sql, args := buildListSQL(t, r, filter)

	if !strings.Contains(sql, "folder_id IS NULL") {
		t.Errorf("query = %q, want folder_id IS NULL", sql)
	}
	if !strings.Contains(sql, "ORDER BY updated_at DESC") {
		t.Errorf("query = %q, want updated_at ordering", sql)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want owner and archived only", args)
	}
}

func TestNoteListQuery_AllFilters(t *testing.T) {
	r := newTestNoteRepo()
	folderID := "f1"
	fav := true
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	filter := &models.NoteFilter{
		OwnerID:    "u1",
		FolderID:   &folderID,
		IsFavorite: &fav,
		Tags:       []string{"go", "db"},
		From:       &from,
		To:         &to,
		SortBy:     models.SortByCreatedAt,
		Limit:      5,
	}
	sql, _ := buildListSQL(t, r, filter)

	for _, want := range []string{"folder_id = $", "is_favorite = $", "tags && $", "updated_at >= $", "updated_at <= $", "ORDER BY created_at DESC", "LIMIT 5"} {
		if !strings.Contains(sql, want) {
			t.Errorf("query = %q, missing %q", sql, want)
		}
	}
}

func buildListSQL(t *testing.T, r *PostgresNoteRepository, filter *models.NoteFilter) (string, []interface{}) {
	t.Helper()
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	return sql, args
}

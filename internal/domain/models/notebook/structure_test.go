package notebook

import (
	"encoding/json"
	"testing"
)

func TestFolderStructure_NoteCount(t *testing.T) {
	tests := []struct {
		name      string
		structure FolderStructure
		want      int
	}{
		{
			name:      "empty",
			structure: NewFolderStructure(),
			want:      0,
		},
		{
			name: "flat",
			structure: FolderStructure{
				Notes: []Note{{ID: "n1"}, {ID: "n2"}},
			},
			want: 2,
		},
		{
			name: "nested",
			structure: FolderStructure{
				Notes: []Note{{ID: "n1"}},
				Folders: []SnapshotFolder{
					{ID: "a", FolderStructure: FolderStructure{
						Notes: []Note{{ID: "n2"}, {ID: "n3"}},
						Folders: []SnapshotFolder{
							{ID: "a1", FolderStructure: FolderStructure{Notes: []Note{{ID: "n4"}}}},
						},
					}},
					{ID: "b"},
				},
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.structure.NoteCount(); got != tt.want {
				t.Errorf("NoteCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshotFolder_JSONIsFlat(t *testing.T) {
	node := SnapshotFolder{ID: "f1", Name: "Recipes", FolderStructure: NewFolderStructure()}

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"id":"f1","name":"Recipes","folders":[],"notes":[]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

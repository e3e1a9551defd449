package notebook

// FolderStructure is the materialized content of one folder: its direct
// sub-folders (each carrying its own structure) and its notes, embedded verbatim.
type FolderStructure struct {
	Folders []SnapshotFolder `json:"folders"`
	Notes   []Note           `json:"notes"`
}

// SnapshotFolder is a sub-folder node inside a FolderStructure.
// Serializes flat: {"id", "name", "folders", "notes"}.
type SnapshotFolder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	FolderStructure
}

// NewFolderStructure returns an empty structure with non-nil slices so it
// serializes as {"folders": [], "notes": []}
func NewFolderStructure() FolderStructure {
	return FolderStructure{
		Folders: []SnapshotFolder{},
		Notes:   []Note{},
	}
}

// NoteCount sums len(Notes) over every node of the tree
func (s *FolderStructure) NoteCount() int {
	count := len(s.Notes)
	for i := range s.Folders {
		count += s.Folders[i].NoteCount()
	}
	return count
}

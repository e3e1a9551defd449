package notebook

import (
	"context"
	"fmt"
	"log/slog"

	"cloudnote/internal/domain/models/notebook"
	"cloudnote/internal/domain/repositories"
	notebookRepo "cloudnote/internal/domain/repositories/notebook"
	notebookSvc "cloudnote/internal/domain/services/notebook"

	"golang.org/x/sync/errgroup"
)

type structureBuilder struct {
	folderRepo notebookRepo.FolderRepository
	noteRepo   notebookRepo.NoteRepository
	logger     *slog.Logger
}

// NewStructureBuilder creates a builder that walks folder subtrees through the repositories
func NewStructureBuilder(
	folderRepo notebookRepo.FolderRepository,
	noteRepo notebookRepo.NoteRepository,
	logger *slog.Logger,
) notebookSvc.StructureBuilder {
	return &structureBuilder{
		folderRepo: folderRepo,
		noteRepo:   noteRepo,
		logger:     logger,
	}
}

// Build materializes the subtree under folderID.
// Each node costs one sub-folder query and one note query; siblings are built concurrently.
func (b *structureBuilder) Build(ctx context.Context, folderID, ownerID string) (notebook.FolderStructure, error) {
	return b.build(ctx, folderID, ownerID, map[string]struct{}{folderID: {}})
}

// ancestors holds every folder ID from the root of the build down to folderID
func (b *structureBuilder) build(ctx context.Context, folderID, ownerID string, ancestors map[string]struct{}) (notebook.FolderStructure, error) {
	children, err := b.folderRepo.ListChildren(ctx, &folderID, ownerID)
	if err != nil {
		return notebook.FolderStructure{}, fmt.Errorf("list sub-folders of %s: %w", folderID, err)
	}

	notes, err := b.noteRepo.ListByFolder(ctx, folderID, ownerID)
	if err != nil {
		return notebook.FolderStructure{}, fmt.Errorf("list notes of %s: %w", folderID, err)
	}

	nodes := make([]*notebook.SnapshotFolder, len(children))

	g, gctx := errgroup.WithContext(ctx)
	// A pgx.Tx is one connection and cannot run queries concurrently
	if repositories.GetTx(ctx) != nil {
		g.SetLimit(1)
	}

	for i, child := range children {
		if _, onPath := ancestors[child.ID]; onPath {
			b.logger.Warn("folder cycle detected, skipping",
				"folder_id", child.ID,
				"parent_id", folderID,
				"owner_id", ownerID,
			)
			continue
		}

		childAncestors := make(map[string]struct{}, len(ancestors)+1)
		for id := range ancestors {
			childAncestors[id] = struct{}{}
		}
		childAncestors[child.ID] = struct{}{}

		g.Go(func() error {
			sub, err := b.build(gctx, child.ID, ownerID, childAncestors)
			if err != nil {
				return err
			}
			nodes[i] = &notebook.SnapshotFolder{
				ID:              child.ID,
				Name:            child.Name,
				FolderStructure: sub,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return notebook.FolderStructure{}, err
	}

	structure := notebook.NewFolderStructure()
	for _, node := range nodes {
		if node != nil {
			structure.Folders = append(structure.Folders, *node)
		}
	}
	structure.Notes = append(structure.Notes, notes...)

	return structure, nil
}

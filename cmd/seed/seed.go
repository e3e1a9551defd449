package main

import (
	"context"
	"fmt"
	"log"

	"cloudnote/internal/domain/models"
	"cloudnote/internal/domain/services"
	notebookSvc "cloudnote/internal/domain/services/notebook"
	sharingSvc "cloudnote/internal/domain/services/sharing"
)

// seeder creates a demo workspace through the service layer so every
// validation and sanitization rule applies to seeded data
type seeder struct {
	notes    notebookSvc.NoteService
	folders  notebookSvc.FolderService
	global   sharingSvc.GlobalService
	profiles services.UserProfileService
}

type seedNote struct {
	title   string
	content string
	tags    []string
}

type seedFolder struct {
	name    string
	notes   []seedNote
	folders []seedFolder
}

type seedResult struct {
	Folders       int
	Notes         int
	RootFolderIDs []string
}

func seedWorkspace() []seedFolder {
	return []seedFolder{
		{
			name: "Recipes",
			notes: []seedNote{
				{title: "Tomato Soup", content: "<h2>Ingredients</h2><ul><li>Tomatoes</li><li>Basil</li></ul>", tags: []string{"dinner"}},
				{title: "Shopping List", content: "<p>Flour, eggs, <strong>butter</strong></p>", tags: []string{"groceries"}},
			},
			folders: []seedFolder{
				{
					name: "Desserts",
					notes: []seedNote{
						{title: "Chocolate Cake", content: "<p>Bake at 180°C for 35 minutes.</p>", tags: []string{"baking", "dessert"}},
					},
				},
			},
		},
		{
			name: "Work",
			notes: []seedNote{
				{title: "Meeting Notes", content: "<p>Discuss the <em>Q3 roadmap</em>.</p>", tags: []string{"meetings"}},
			},
		},
	}
}

// run seeds the workspace for identity and, when publish is set, shares
// every root folder to the global feed
func (s *seeder) run(ctx context.Context, identity *models.Identity, displayName string, publish bool) (*seedResult, error) {
	if displayName != "" {
		if _, err := s.profiles.UpdateProfile(ctx, identity, &models.UpdateProfileRequest{DisplayName: &displayName}); err != nil {
			return nil, fmt.Errorf("seed profile: %w", err)
		}
	}

	result := &seedResult{}
	for _, folder := range seedWorkspace() {
		id, err := s.createFolder(ctx, identity.UserID, nil, folder, result)
		if err != nil {
			return nil, err
		}
		result.RootFolderIDs = append(result.RootFolderIDs, id)
	}

	welcome := "Welcome to CloudNote"
	body := "<p>Notes at the root level live outside any folder.</p>"
	if _, err := s.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{OwnerID: identity.UserID, Title: &welcome, Content: &body}); err != nil {
		return nil, fmt.Errorf("seed note %q: %w", welcome, err)
	}
	result.Notes++

	if publish {
		publisher := sharingSvc.Publisher{UserID: identity.UserID, Email: identity.Email}
		for _, id := range result.RootFolderIDs {
			shared, err := s.global.ShareFolder(ctx, publisher, id)
			if err != nil {
				return nil, fmt.Errorf("publish folder %s: %w", id, err)
			}
			log.Printf("Published folder %s (global id %s)", id, shared.ID)
		}
	}

	return result, nil
}

func (s *seeder) createFolder(ctx context.Context, ownerID string, parentID *string, folderSpec seedFolder, result *seedResult) (string, error) {
	name := folderSpec.name
	folder, err := s.folders.CreateFolder(ctx, &notebookSvc.CreateFolderRequest{OwnerID: ownerID, Name: &name, ParentID: parentID})
	if err != nil {
		return "", fmt.Errorf("seed folder %q: %w", folderSpec.name, err)
	}
	result.Folders++

	for _, n := range folderSpec.notes {
		title, content := n.title, n.content
		if _, err := s.notes.CreateNote(ctx, &notebookSvc.CreateNoteRequest{
			OwnerID:  ownerID,
			Title:    &title,
			Content:  &content,
			FolderID: &folder.ID,
			Tags:     n.tags,
		}); err != nil {
			return "", fmt.Errorf("seed note %q: %w", n.title, err)
		}
		result.Notes++
	}

	for _, child := range folderSpec.folders {
		if _, err := s.createFolder(ctx, ownerID, &folder.ID, child, result); err != nil {
			return "", err
		}
	}

	return folder.ID, nil
}

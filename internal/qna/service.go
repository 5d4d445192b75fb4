package qna

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"claimdesk-backend/internal/analysis"
	"claimdesk-backend/internal/documents"
	"claimdesk-backend/internal/folders"
)

// ErrEmptyQuestion is returned when a caller submits a blank question.
var ErrEmptyQuestion = errors.New("question is required")

// Service answers free-form questions about a folder's policy and documents.
type Service struct {
	Repo      Repo
	Folders   folders.Repo
	Docs      documents.Repo
	Requestor *analysis.Requestor
}

// Ask answers the question against the folder context and records the
// exchange.
func (s *Service) Ask(ctx context.Context, folderID, question string) (Entry, error) {
	if strings.TrimSpace(question) == "" {
		return Entry{}, ErrEmptyQuestion
	}
	folder, err := s.Folders.GetByID(ctx, folderID)
	if err != nil {
		return Entry{}, err
	}
	docs, err := s.Docs.ListByFolder(ctx, folderID)
	if err != nil {
		return Entry{}, err
	}

	summaries := make([]string, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, fmt.Sprintf("%s: %s", doc.Filename, doc.Summary))
	}

	answer := s.Requestor.Answer(ctx, analysis.QuestionContext{
		Policy: analysis.PolicySnapshot{
			CompanyName:    folder.CompanyName,
			CoverageAmount: folder.CoverageAmount,
			PolicyType:     folder.PolicyType,
			ExpiryDate:     folder.ExpiryDate,
			Exclusions:     folder.Exclusions,
			Summary:        folder.PolicySummary,
		},
		DocumentSummaries: summaries,
		Question:          question,
	})

	entry := Entry{
		ID:        uuid.NewString(),
		FolderID:  folderID,
		Question:  question,
		Answer:    answer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// History returns a folder's Q&A exchanges, newest first.
func (s *Service) History(ctx context.Context, folderID string) ([]Entry, error) {
	if _, err := s.Folders.GetByID(ctx, folderID); err != nil {
		return nil, err
	}
	return s.Repo.ListByFolder(ctx, folderID)
}

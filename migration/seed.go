package migration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/quizbattle-lab/backend/internal/entity"
	"github.com/quizbattle-lab/backend/internal/repository"
)

type questionFile struct {
	Questions []struct {
		ID         int             `json:"id"`
		CategoryID int             `json:"categoryId"`
		ImageCode  string          `json:"imageCode"`
		Content    string          `json:"content"`
		Options    []entity.Option `json:"options"`
		Answer     int             `json:"answer"`
	} `json:"questions"`
}

// SeedQuestions loads every question JSON file under dir into the question
// bank. It is a no-op when the bank is already populated, so restarting with
// a file-backed database does not duplicate rows.
func SeedQuestions(ctx context.Context, questionRepo repository.QuestionRepository, dir string) error {
	count, err := questionRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}

	var questions []entity.Question
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var file questionFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return err
		}

		for _, q := range file.Questions {
			questions = append(questions, entity.Question{
				ID:         q.ID,
				CategoryID: q.CategoryID,
				ImageCode:  q.ImageCode,
				Content:    q.Content,
				Options:    q.Options,
				Answer:     q.Answer,
			})
		}
	}

	return questionRepo.CreateList(ctx, questions)
}

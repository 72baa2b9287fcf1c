package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/repositories"
)

// CreateDefaultCourses inserts names into an empty courses table.
// A non-empty table is left untouched so restarts never duplicate data.
// Individual insert failures are collected and returned together.
func CreateDefaultCourses(ctx context.Context, repo repositories.CourseRepository, names []string, lgr zerolog.Logger) error {
	if len(names) == 0 {
		return nil
	}

	existing, err := repo.Count(ctx, repositories.CourseFilter{})
	if err != nil {
		return fmt.Errorf("failed to count existing courses: %w", err)
	}
	if existing > 0 {
		lgr.Info().Int64("existing", existing).Msg("Courses already present, skipping seed")
		return nil
	}

	lgr.Info().Int("courses", len(names)).Msg("Seeding default courses...")
	var finalErr error
	created := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, err := repo.Create(ctx, &models.Course{Name: name})
		if err != nil {
			lgr.Error().Err(err).Str("name", name).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Int64("courseID", id).Str("name", name).Msg("Default course created")
		created++
	}

	lgr.Info().Int("created", created).Msg("Default course seeding finished.")
	return finalErr
}

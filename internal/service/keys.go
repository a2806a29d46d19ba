package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aps4398/project-manager/internal/model"
	"gorm.io/gorm"
)

const fallbackProjectKey = "PROJ"

// projectKeyBase derives a key candidate from a project name: the uppercase
// letters of the name, truncated to three, or PROJ when the name has none.
func projectKeyBase(name string) string {
	keep := make([]rune, 0, 3)
	for _, r := range name {
		if unicode.IsLetter(r) {
			keep = append(keep, unicode.ToUpper(r))
			if len(keep) == 3 {
				break
			}
		}
	}
	if len(keep) == 0 {
		return fallbackProjectKey
	}
	return string(keep)
}

// generateProjectKey probes base, base1, base2, ... until a key no other
// project uses. Callers run this inside the creation transaction; the unique
// index on project_key is the backstop should two creators still collide.
func generateProjectKey(tx *gorm.DB, name string) (string, error) {
	base := projectKeyBase(name)
	key := base
	for counter := 1; ; counter++ {
		var count int64
		if err := tx.Unscoped().Model(&model.Project{}).Where("project_key = ?", key).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return key, nil
		}
		key = fmt.Sprintf("%s%d", base, counter)
	}
}

// nextTaskKey assigns {project.key}-{n} where n follows the highest sequence
// number previously handed out for the project, starting at 1. A key whose
// suffix does not parse counts as absent.
func nextTaskKey(tx *gorm.DB, project *model.Project) (string, error) {
	next := 1
	var last model.Task
	err := tx.Unscoped().Where("project_id = ?", project.ID).Order("id desc").First(&last).Error
	switch {
	case err == nil:
		if idx := strings.LastIndex(last.Key, "-"); idx >= 0 {
			if n, perr := strconv.Atoi(last.Key[idx+1:]); perr == nil {
				next = n + 1
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first task of the project
	default:
		return "", err
	}
	return fmt.Sprintf("%s-%d", project.Key, next), nil
}

// isDuplicate reports whether a write failed on a uniqueness constraint. The
// caller surfaces this as a conflict; nothing is retried automatically.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the length of Recipe.Embedding
const EmbeddingDimensions = 3

// Recipe is a community recipe submitted through the form
type Recipe struct {
	ID           uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	Title        string          `gorm:"size:255;not null" json:"title"`
	Ingredients  string          `gorm:"type:text;not null" json:"ingredients"`
	Instructions string          `gorm:"type:text;not null" json:"instructions"`
	ImageURL     string          `gorm:"size:512" json:"image_url"`
	ImageKey     string          `gorm:"size:255" json:"-"`
	Embedding    pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	UserID       uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User         *User           `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IngredientLines splits the free-text ingredient list into non-blank lines
func (r *Recipe) IngredientLines() []string {
	return nonBlankLines(r.Ingredients)
}

// InstructionLines splits the free-text instructions into non-blank lines
func (r *Recipe) InstructionLines() []string {
	return nonBlankLines(r.Instructions)
}

func nonBlankLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

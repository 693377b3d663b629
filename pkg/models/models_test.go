package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
		Role:     RoleUser,
		IsActive: true,
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{ID: existingID, Email: "test@example.com", Username: "testuser"}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestStory_BeforeCreate(t *testing.T) {
	story := &Story{Title: "The Long Road"}

	err := story.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, story.ID)
	assert.Nil(t, story.AuthorID)
}

func TestChapter_BeforeCreate_WithID(t *testing.T) {
	chapter := &Chapter{ID: "chapter-1", StoryID: "story-1", Number: 1, Title: "Prologue"}

	err := chapter.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, "chapter-1", chapter.ID)
}

func TestAuthorProfile_BeforeCreate(t *testing.T) {
	profile := &AuthorProfile{UserID: "user-1", PenName: "Quill"}

	err := profile.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "stories", Story{}.TableName())
	assert.Equal(t, "chapters", Chapter{}.TableName())
	assert.Equal(t, "author_profiles", AuthorProfile{}.TableName())
}

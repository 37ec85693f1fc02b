package board

import (
	"strings"

	apperrors "github.com/yanqian/jungle-board/pkg/errors"
)

// Validate trims the form and resolves its category. No field may be blank.
func (f PostForm) Validate() (PostInput, error) {
	in := PostInput{
		Title:    strings.TrimSpace(f.Title),
		Category: EditorCategory(f.Category),
		Content:  strings.TrimSpace(f.Content),
	}
	if in.Title == "" || in.Content == "" {
		return PostInput{}, apperrors.Wrap(apperrors.CodeInvalidInput, "title and content are required", nil)
	}
	return in, nil
}

// Validate trims the comment; it must not be blank.
func (f CommentForm) Validate() (CommentInput, error) {
	content := strings.TrimSpace(f.Content)
	if content == "" {
		return CommentInput{}, apperrors.Wrap(apperrors.CodeInvalidInput, "comment content is required", nil)
	}
	return CommentInput{Content: content}, nil
}

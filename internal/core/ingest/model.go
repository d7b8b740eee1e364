package ingest

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNoDocuments は投入対象のドキュメントが存在しない場合のエラー
	ErrNoDocuments = errors.New("no documents provided")

	// ErrEmptyContent は本文が空のドキュメントが含まれる場合のエラー
	ErrEmptyContent = errors.New("document content is empty")
)

// Document は検索対象として保存するエピソードドキュメントを表す
type Document struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

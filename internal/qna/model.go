package qna

import "time"

// Entry is one question/answer exchange scoped to a folder.
type Entry struct {
	ID        string    `json:"id"`
	FolderID  string    `json:"folder_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

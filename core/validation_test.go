package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDocument(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				FilePath:  "/home/user/docs/resume.txt",
				FileName:  "resume.txt",
				FileType:  ".txt",
				Content:   "Work experience and education",
				IndexedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid document with empty doc type",
			doc: &Document{
				FilePath:  "/home/user/docs/notes.md",
				FileName:  "notes.md",
				FileType:  ".md",
				Content:   "Some notes",
				DocType:   "",
				IndexedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name: "empty file path",
			doc: &Document{
				FilePath:  "",
				FileName:  "resume.txt",
				Content:   "text",
				IndexedAt: validTime,
			},
			wantErr: ErrEmptyFilePath,
		},
		{
			name: "empty file name",
			doc: &Document{
				FilePath:  "/home/user/docs/resume.txt",
				FileName:  "",
				Content:   "text",
				IndexedAt: validTime,
			},
			wantErr: ErrEmptyFileName,
		},
		{
			name: "empty content",
			doc: &Document{
				FilePath:  "/home/user/docs/resume.txt",
				FileName:  "resume.txt",
				Content:   "",
				IndexedAt: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "future timestamp",
			doc: &Document{
				FilePath:  "/home/user/docs/resume.txt",
				FileName:  "resume.txt",
				Content:   "text",
				IndexedAt: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRole(t *testing.T) {
	if err := ValidateRole(RoleUser); err != nil {
		t.Errorf("ValidateRole(RoleUser) = %v, want nil", err)
	}
	if err := ValidateRole(RoleAssistant); err != nil {
		t.Errorf("ValidateRole(RoleAssistant) = %v, want nil", err)
	}
	if err := ValidateRole(Role(999)); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("ValidateRole(999) = %v, want ErrInvalidRole", err)
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("IsValidTimestamp() = false for past timestamp")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("IsValidTimestamp() = true for future timestamp")
	}
}

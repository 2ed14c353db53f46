package gitsource

import (
	"path/filepath"
	"testing"
)

func TestLocalPath(t *testing.T) {
	testCases := []struct {
		name    string
		repoURL string
		want    string
		wantErr bool
	}{
		{
			name:    "https url",
			repoURL: "https://github.com/nuzy/glossaries.git",
			want:    filepath.Join("repos", "github.com", "nuzy", "glossaries"),
		},
		{
			name:    "https url without suffix",
			repoURL: "https://github.com/nuzy/glossaries",
			want:    filepath.Join("repos", "github.com", "nuzy", "glossaries"),
		},
		{
			name:    "scp-style url",
			repoURL: "git@github.com:nuzy/glossaries.git",
			want:    filepath.Join("repos", "github.com", "nuzy", "glossaries"),
		},
		{
			name:    "unparseable url",
			repoURL: "not-a-repo",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LocalPath("repos", tc.repoURL)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected an error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("LocalPath failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

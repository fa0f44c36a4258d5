package store

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skovert/folio/pkg/errors"
)

func TestCheckFieldDelete(t *testing.T) {
	path := mustPath(t, "hero.title")

	tests := []struct {
		name     string
		matched  int64
		modified int64
		wantCode errors.Code
	}{
		{"field removed", 1, 1, ""},
		{"document missing", 0, 0, errors.ErrCodeDocumentNotFound},
		// $unset of an absent field matches the document but modifies
		// nothing; that must surface as a missing path, not success.
		{"field missing", 1, 0, errors.ErrCodePathNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &mongo.UpdateResult{MatchedCount: tt.matched, ModifiedCount: tt.modified}
			err := checkFieldDelete(res, DocContent, path)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

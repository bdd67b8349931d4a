package core

import (
	"errors"
	"testing"
)

func TestValidateArticle(t *testing.T) {
	tests := []struct {
		name    string
		article *Article
		wantErr error
	}{
		{
			name: "valid article",
			article: &Article{
				Title:       "Launch",
				Link:        "https://example.com/launch",
				Description: "A rocket launched today.",
				Source:      "example",
			},
			wantErr: nil,
		},
		{
			name: "valid article with empty description",
			article: &Article{
				Title:  "Launch",
				Link:   "https://example.com/launch",
				Source: "example",
			},
			wantErr: nil,
		},
		{
			name:    "nil article",
			article: nil,
			wantErr: ErrInvalidArticle,
		},
		{
			name: "missing link",
			article: &Article{
				Title:  "Launch",
				Source: "example",
			},
			wantErr: ErrEmptyLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArticle(tt.article)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	valid := func() Record {
		return Record{
			Id:   1,
			Text: "some chunk text",
			Metadata: map[string]string{
				MetaLink:   "https://example.com/launch",
				MetaSource: "example",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{
			name:    "valid record",
			mutate:  func(r *Record) {},
			wantErr: nil,
		},
		{
			name:    "empty text",
			mutate:  func(r *Record) { r.Text = "" },
			wantErr: ErrEmptyText,
		},
		{
			name:    "missing link provenance",
			mutate:  func(r *Record) { delete(r.Metadata, MetaLink) },
			wantErr: ErrMissingProvenance,
		},
		{
			name:    "missing source provenance",
			mutate:  func(r *Record) { delete(r.Metadata, MetaSource) },
			wantErr: ErrMissingProvenance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			tt.mutate(&record)
			err := ValidateRecord(&record)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("nil record", func(t *testing.T) {
		if !errors.Is(ValidateRecord(nil), ErrInvalidRecord) {
			t.Fatal("expected ErrInvalidRecord for nil record")
		}
	})
}

package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

func TestParseRepo(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    model.RepoRef
		wantErr bool
	}{
		{
			name:  "valid notation",
			input: "octocat/hello",
			want:  model.RepoRef{Owner: "octocat", Name: "hello"},
		},
		{
			name:    "missing name",
			input:   "octocat/",
			wantErr: true,
		},
		{
			name:    "missing owner",
			input:   "/hello",
			wantErr: true,
		},
		{
			name:    "no slash",
			input:   "octocat",
			wantErr: true,
		},
		{
			name:    "too many segments",
			input:   "octocat/hello/world",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, types.ErrInvalidRepo) {
					t.Errorf("error should wrap ErrInvalidRepo, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseRepo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepoRef_String(t *testing.T) {
	r := model.RepoRef{Owner: "octocat", Name: "hello"}
	if r.String() != "octocat/hello" {
		t.Errorf("String() = %v, want octocat/hello", r.String())
	}
	if r.IsZero() {
		t.Error("IsZero() should be false")
	}
	if !(model.RepoRef{}).IsZero() {
		t.Error("IsZero() should be true for empty ref")
	}
}

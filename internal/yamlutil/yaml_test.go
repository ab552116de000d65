package yamlutil

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type renderSettings struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
	Lang    string        `yaml:"lang"`
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    renderSettings
		wantErr error
		anyErr  bool
	}{
		{
			name:  "all fields",
			input: "workers: 3\ntimeout: 45s\nlang: fr\n",
			want:  renderSettings{Workers: 3, Timeout: 45 * time.Second, Lang: "fr"},
		},
		{
			name:  "partial keeps zero values",
			input: "lang: en\n",
			want:  renderSettings{Lang: "en"},
		},
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "unknown key", input: "workers: 1\ncolour: red\n", anyErr: true},
		{name: "wrong type", input: "workers: many\n", anyErr: true},
		{name: "too large", input: strings.Repeat("#", MaxInputSize+1), wantErr: ErrInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got renderSettings
			err := DecodeStrict([]byte(tt.input), &got)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeStrict() error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.anyErr:
				if err == nil {
					t.Fatal("DecodeStrict() expected error")
				}
				return
			case err != nil:
				t.Fatalf("DecodeStrict() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeStrict() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeStrict_NilDestination(t *testing.T) {
	t.Parallel()

	if err := DecodeStrict([]byte("a: 1"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("DecodeStrict(nil) error = %v, want ErrNilDestination", err)
	}
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	input := `
darkMode: true
personalInfo:
  name: Ada Lovelace
sections:
  - id: skills
    title: Skills
    content:
      - type: list
        content: [Go, SQL]
`
	out, err := ToJSON([]byte(input))
	if err != nil {
		t.Fatalf("ToJSON() unexpected error: %v", err)
	}

	var got struct {
		DarkMode     bool `json:"darkMode"`
		PersonalInfo struct {
			Name string `json:"name"`
		} `json:"personalInfo"`
		Sections []struct {
			ID      string `json:"id"`
			Content []struct {
				Type    string   `json:"type"`
				Content []string `json:"content"`
			} `json:"content"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !got.DarkMode || got.PersonalInfo.Name != "Ada Lovelace" {
		t.Errorf("header fields lost: %s", out)
	}
	if len(got.Sections) != 1 || got.Sections[0].ID != "skills" {
		t.Fatalf("sections = %+v", got.Sections)
	}
	if items := got.Sections[0].Content[0].Content; len(items) != 2 || items[1] != "SQL" {
		t.Errorf("list items = %v, want [Go SQL]", items)
	}
}

func TestToJSON_Errors(t *testing.T) {
	t.Parallel()

	if _, err := ToJSON(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("ToJSON(nil) error = %v, want ErrEmpty", err)
	}
	if _, err := ToJSON([]byte("a: [1, 2")); err == nil {
		t.Error("ToJSON() expected error for unterminated flow sequence")
	}
}

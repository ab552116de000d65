package portfolio

import (
	"context"
	"slices"
	"testing"
)

func TestProfileService_Upsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	media := &fakeMedia{}
	s := newTestStore(t, media, nil)

	if _, ok, err := s.Profile.Get(ctx); err != nil || ok {
		t.Fatalf("Get() on empty store = ok %v, err %v", ok, err)
	}

	_, existed, err := s.Profile.Upsert(ctx, Profile{FirstName: "Ada", LastName: "Lovelace", PhotoURL: "https://cdn/a.jpg"})
	if err != nil || existed {
		t.Fatalf("first Upsert() existed = %v, err = %v", existed, err)
	}
	_, existed, err = s.Profile.Upsert(ctx, Profile{FirstName: "Ada", LastName: "Lovelace", PhotoURL: "https://cdn/b.jpg"})
	if err != nil || !existed {
		t.Fatalf("second Upsert() existed = %v, err = %v", existed, err)
	}

	p, ok, _ := s.Profile.Get(ctx)
	if !ok || p.PhotoURL != "https://cdn/b.jpg" || p.ID != profileID {
		t.Errorf("Get() = %+v", p)
	}
	if got := media.Deleted(); !slices.Equal(got, []string{"https://cdn/a.jpg"}) {
		t.Errorf("deleted = %v, want replaced photo", got)
	}
}

func TestProfileService_SetCV(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	media := &fakeMedia{}
	s := newTestStore(t, media, nil)

	if err := s.Profile.SetCV(ctx, "https://cdn/docs/cv1.pdf"); err != nil {
		t.Fatalf("SetCV() on empty profile error = %v", err)
	}
	if err := s.Profile.SetCV(ctx, "https://cdn/docs/cv2.pdf"); err != nil {
		t.Fatalf("SetCV() error = %v", err)
	}
	p, _, _ := s.Profile.Get(ctx)
	if p.CVURL != "https://cdn/docs/cv2.pdf" {
		t.Errorf("CVURL = %q", p.CVURL)
	}
	if got := media.Deleted(); !slices.Equal(got, []string{"https://cdn/docs/cv1.pdf"}) {
		t.Errorf("deleted = %v, want previous CV only", got)
	}
}

func TestProfile_FullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		first, last, want string
	}{
		{"Ada", "Lovelace", "Ada Lovelace"},
		{" Ada ", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := (Profile{FirstName: tt.first, LastName: tt.last}).FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type fakeUploadAPI struct {
	uploaded  []uploader.UploadParams
	destroyed []uploader.DestroyParams
	uploadErr error
	apiErr    string
}

func (f *fakeUploadAPI) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.uploaded = append(f.uploaded, p)
	res := &uploader.UploadResult{
		PublicID:     p.Folder + "/" + p.PublicID,
		ResourceType: "image",
		SecureURL:    "https://res.cloudinary.com/demo/image/upload/v1/" + p.Folder + "/" + p.PublicID + ".png",
	}
	res.Error = api.ErrorResp{Message: f.apiErr}
	return res, nil
}

func (f *fakeUploadAPI) Destroy(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = append(f.destroyed, p)
	return &uploader.DestroyResult{Result: "ok"}, nil
}

func TestCloudinary_Upload(t *testing.T) {
	t.Parallel()

	fake := &fakeUploadAPI{}
	c := &Cloudinary{api: fake, cloudName: "demo"}

	obj, err := c.Upload(context.Background(), "medias", "image_1_abcd1234.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if len(fake.uploaded) != 1 {
		t.Fatalf("uploads = %d, want 1", len(fake.uploaded))
	}
	p := fake.uploaded[0]
	if p.PublicID != "image_1_abcd1234" || p.Folder != "medias" || p.ResourceType != "auto" {
		t.Errorf("params = %+v", p)
	}
	if obj.PublicID != "medias/image_1_abcd1234" || obj.ResourceType != "image" {
		t.Errorf("Upload() = %+v", obj)
	}

	// The delivery URL round-trips to the same object.
	if err := c.DeleteByURL(context.Background(), obj.URL); err != nil {
		t.Fatalf("DeleteByURL() error = %v", err)
	}
	d := fake.destroyed[0]
	if d.PublicID != obj.PublicID || d.ResourceType != "image" {
		t.Errorf("destroy params = %+v", d)
	}
}

func TestCloudinary_UploadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fake *fakeUploadAPI
	}{
		{"transport", &fakeUploadAPI{uploadErr: errors.New("timeout")}},
		{"api", &fakeUploadAPI{apiErr: "Invalid signature"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &Cloudinary{api: tt.fake}
			if _, err := c.Upload(context.Background(), "docs", "cv.pdf", strings.NewReader("x")); err == nil {
				t.Error("Upload() error = nil, want failure")
			}
		})
	}
}

func TestCloudinary_DeleteByForeignURL(t *testing.T) {
	t.Parallel()

	fake := &fakeUploadAPI{}
	c := &Cloudinary{api: fake, cloudName: "demo"}
	if err := c.DeleteByURL(context.Background(), "https://example.com/x.png"); !errors.Is(err, ErrForeignURL) {
		t.Errorf("error = %v, want ErrForeignURL", err)
	}
	if len(fake.destroyed) != 0 {
		t.Error("foreign URL should not reach the API")
	}
}

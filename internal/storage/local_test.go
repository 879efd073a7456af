package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appconfig "go-catalog-admin/pkg/config"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/uploads/")

	res, err := l.Put(context.Background(), strings.NewReader("img"), PutInput{
		Filename: "Front.JPG",
		Folder:   "products/abc/Red",
	})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !strings.HasPrefix(res.Key, "products/abc/Red/") || !strings.HasSuffix(res.Key, ".jpg") {
		t.Fatalf("Key = %q", res.Key)
	}
	if res.URL != "/uploads/"+res.Key {
		t.Fatalf("URL = %q", res.URL)
	}
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	if err != nil || string(data) != "img" {
		t.Fatalf("stored file = %q, %v", data, err)
	}

	if err := l.Delete(context.Background(), res.Key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := l.Delete(context.Background(), res.Key); err != nil {
		t.Fatalf("second Delete() error = %v, want nil", err)
	}
}

func TestObjectKeyStripsTraversal(t *testing.T) {
	key := objectKey(PutInput{Filename: "x.exe", Folder: "../../etc"})
	if strings.Contains(key, "..") || !strings.HasPrefix(key, "etc/") {
		t.Fatalf("objectKey() = %q", key)
	}
	if strings.HasSuffix(key, ".exe") {
		t.Fatalf("objectKey() kept a non-image extension: %q", key)
	}
}

func TestFromConfig(t *testing.T) {
	res, err := FromConfig(context.Background(), appconfig.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	if err != nil || res.Driver != "local" {
		t.Fatalf("FromConfig(local) = %+v, %v", res, err)
	}
	if _, err := FromConfig(context.Background(), appconfig.StorageConfig{Driver: "s3"}); err == nil {
		t.Fatal("FromConfig(s3) without settings succeeded")
	}
	if _, err := FromConfig(context.Background(), appconfig.StorageConfig{Driver: "ftp"}); err == nil {
		t.Fatal("FromConfig(ftp) succeeded")
	}
}

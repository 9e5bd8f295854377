package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/widgetkit/pkg/render"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	objects map[string]fakeObject
	puts    int
}

type fakeObject struct {
	body        []byte
	contentType string
	meta        map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]fakeObject)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts++
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = fakeObject{
		body:        body,
		contentType: aws.ToString(in.ContentType),
		meta:        in.Metadata,
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(obj.body)),
		ContentType: aws.String(obj.contentType),
		Metadata:    obj.meta,
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	disk, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"disk":   disk,
		"s3":     NewS3Store(newFakeS3(), "bucket", "snapshots/"),
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(ctx, "home"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() missing error = %v, want ErrNotFound", err)
			}

			meta := map[string]string{"k": "v"}
			if err := store.Put(ctx, "pages/home", []byte("<p>hi</p>"), meta); err != nil {
				t.Fatal(err)
			}
			snap, err := store.Get(ctx, "pages/home")
			if err != nil {
				t.Fatal(err)
			}
			if string(snap.HTML) != "<p>hi</p>" {
				t.Errorf("HTML = %q", snap.HTML)
			}
			if snap.ContentType != ContentType {
				t.Errorf("ContentType = %q", snap.ContentType)
			}
			if snap.Metadata["k"] != "v" {
				t.Errorf("Metadata = %v", snap.Metadata)
			}

			if err := store.Delete(ctx, "pages/home"); err != nil {
				t.Fatal(err)
			}
			if err := store.Delete(ctx, "pages/home"); err != nil {
				t.Errorf("second Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, "pages/home"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v", err)
			}
		})
	}
}

func TestInvalidNames(t *testing.T) {
	ctx := context.Background()
	for _, bad := range []string{"", "/abs", "../up", `a\b`} {
		for name, store := range stores(t) {
			if err := store.Put(ctx, bad, nil, nil); !errors.Is(err, ErrInvalidName) {
				t.Errorf("%s: Put(%q) error = %v, want ErrInvalidName", name, bad, err)
			}
		}
	}
}

func TestS3Key(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake, "bucket", "snapshots/")
	if err := store.Put(context.Background(), "home", []byte("x"), nil); err != nil {
		t.Fatal(err)
	}
	obj, ok := fake.objects["bucket/snapshots/home.html"]
	if !ok {
		t.Fatalf("objects = %v", fake.objects)
	}
	if obj.contentType != ContentType {
		t.Errorf("content type = %q", obj.contentType)
	}
}

func TestExport(t *testing.T) {
	store := NewMemoryStore()
	root := tree.El("main", tree.El("h1", "Title"))
	r := render.NewRenderer(render.RendererConfig{})

	if err := Export(context.Background(), store, "index", r, root); err != nil {
		t.Fatal(err)
	}
	snap, err := store.Get(context.Background(), "index")
	if err != nil {
		t.Fatal(err)
	}
	if string(snap.HTML) != "<main><h1>Title</h1></main>" {
		t.Errorf("HTML = %q", snap.HTML)
	}
	if snap.Metadata[MetaRootTag] != "main" || snap.Metadata[MetaRenderedAt] == "" {
		t.Errorf("Metadata = %v", snap.Metadata)
	}
}

func TestExportRenderError(t *testing.T) {
	store := NewMemoryStore()
	root := tree.El("div", tree.Prop("title", func() {}))
	err := Export(context.Background(), store, "bad", render.NewRenderer(render.RendererConfig{}), root)
	if err == nil || store.Len() != 0 {
		t.Errorf("Export() error = %v, stored %d", err, store.Len())
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := envCredentials().Retrieve(context.Background()); err == nil || !strings.Contains(err.Error(), "AWS_ACCESS_KEY_ID") {
		t.Errorf("Retrieve() error = %v", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := envCredentials().Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("creds = %+v", creds)
	}
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", PathStyle: true})
	o := c.Options()
	if o.Region != "us-east-1" || !o.UsePathStyle || aws.ToString(o.BaseEndpoint) != "http://localhost:9000" {
		t.Errorf("options = region %q, path style %v, endpoint %q", o.Region, o.UsePathStyle, aws.ToString(o.BaseEndpoint))
	}
}

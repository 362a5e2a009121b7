package storage

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeObjectAPI records calls and lets tests fail individual operations.
type fakeObjectAPI struct {
	headErr   error
	createErr error
	putErr    error
	aclErr    error

	created bool
	puts    []s3.PutObjectInput
	acls    []s3.PutObjectAclInput
}

func (f *fakeObjectAPI) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeObjectAPI) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, *params)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error) {
	if f.aclErr != nil {
		return nil, f.aclErr
	}
	f.acls = append(f.acls, *params)
	return &s3.PutObjectAclOutput{}, nil
}

func testPublisher(api objectAPI) *Publisher {
	return &Publisher{
		api:       api,
		bucket:    "proj-oracle-visions",
		publicURL: "https://storage.googleapis.com",
	}
}

// TestPublish_Success asserts the record carries the bucket, a visions/ key
// and the deterministic public URL.
func TestPublish_Success(t *testing.T) {
	api := &fakeObjectAPI{}
	p := testPublisher(api)

	rec, err := p.Publish(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if rec.Bucket != "proj-oracle-visions" {
		t.Errorf("bucket %q", rec.Bucket)
	}
	if !strings.HasPrefix(rec.Key, "visions/") || !strings.HasSuffix(rec.Key, ".png") {
		t.Errorf("key %q does not match visions/{id}.png", rec.Key)
	}
	want := "https://storage.googleapis.com/proj-oracle-visions/" + rec.Key
	if rec.URL != want {
		t.Errorf("url %q != %q", rec.URL, want)
	}
	if len(api.puts) != 1 || len(api.acls) != 1 {
		t.Errorf("expected 1 put and 1 acl call, got %d/%d", len(api.puts), len(api.acls))
	}
}

// TestPublish_ACLFailure asserts upload-succeeded-but-ACL-failed surfaces as
// an error (all-or-nothing; no private-but-uploaded success).
func TestPublish_ACLFailure(t *testing.T) {
	api := &fakeObjectAPI{aclErr: fmt.Errorf("access denied")}
	p := testPublisher(api)

	_, err := p.Publish(context.Background(), []byte("png-bytes"), "image/png")
	if err == nil {
		t.Fatal("expected error when acl assignment fails")
	}
	if !strings.Contains(err.Error(), "public-read acl") {
		t.Errorf("error %q does not mention acl", err)
	}
	if len(api.puts) != 1 {
		t.Errorf("expected the upload to have happened, got %d puts", len(api.puts))
	}
}

// TestPublish_UploadFailure asserts a failed write propagates and no ACL call is made.
func TestPublish_UploadFailure(t *testing.T) {
	api := &fakeObjectAPI{putErr: fmt.Errorf("network fault")}
	p := testPublisher(api)

	_, err := p.Publish(context.Background(), []byte("png-bytes"), "image/png")
	if err == nil {
		t.Fatal("expected error when upload fails")
	}
	if len(api.acls) != 0 {
		t.Errorf("acl should not be set after a failed upload")
	}
}

// TestPublish_EmptyPayload rejects empty payloads before touching storage.
func TestPublish_EmptyPayload(t *testing.T) {
	api := &fakeObjectAPI{}
	p := testPublisher(api)

	if _, err := p.Publish(context.Background(), nil, "image/png"); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if len(api.puts) != 0 {
		t.Errorf("no put expected for empty payload")
	}
}

// TestPublish_CreatesMissingBucket asserts the bucket is created lazily when
// the head check fails, and the check is cached afterwards.
func TestPublish_CreatesMissingBucket(t *testing.T) {
	api := &fakeObjectAPI{headErr: fmt.Errorf("404 not found")}
	p := testPublisher(api)

	if _, err := p.Publish(context.Background(), []byte("a"), "image/png"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !api.created {
		t.Error("expected bucket creation")
	}

	// Second publish must not re-create.
	api.created = false
	if _, err := p.Publish(context.Background(), []byte("b"), "image/png"); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if api.created {
		t.Error("bucket check should be cached after first success")
	}
}

// TestNewObjectKey_Unique generates many keys and asserts pairwise distinctness.
func TestNewObjectKey_Unique(t *testing.T) {
	const n = 2000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		key := NewObjectKey("image/png")
		if !strings.HasPrefix(key, "visions/") || !strings.HasSuffix(key, ".png") {
			t.Fatalf("key %q does not match visions/{id}.png", key)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key after %d generations: %s", i, key)
		}
		seen[key] = struct{}{}
	}
}

// TestPublicURL_Shape covers base URLs with and without a trailing slash.
func TestPublicURL_Shape(t *testing.T) {
	p := testPublisher(&fakeObjectAPI{})
	want := "https://storage.googleapis.com/proj-oracle-visions/visions/abc.png"
	if got := p.PublicURL("visions/abc.png"); got != want {
		t.Errorf("got %q want %q", got, want)
	}

	p.publicURL = "https://storage.googleapis.com/"
	if got := p.PublicURL("visions/abc.png"); got != want {
		t.Errorf("trailing slash: got %q want %q", got, want)
	}
}

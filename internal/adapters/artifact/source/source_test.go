package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	. "github.com/smartystreets/goconvey/convey"
)

type stubDownloader struct {
	bucket, key string
	body        []byte
	err         error
}

func (s *stubDownloader) Download(_ context.Context, w io.WriterAt, in *s3.GetObjectInput, _ ...func(*manager.Downloader)) (int64, error) {
	s.bucket, s.key = *in.Bucket, *in.Key
	if s.err != nil {
		return 0, s.err
	}
	n, err := w.WriteAt(s.body, 0)
	return int64(n), err
}

func TestFile(t *testing.T) {
	Convey("Given a manifest on disk", t, func() {
		dir := t.TempDir()
		p := filepath.Join(dir, "model.json")
		So(os.WriteFile(p, []byte(`{"name":"eco"}`), 0o600), ShouldBeNil)

		Convey("Then the router reads it by path and by file:// uri", func() {
			b, err := Router{}.Read(context.Background(), p)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"name":"eco"}`)

			b, err = Router{}.Read(context.Background(), "file://"+p)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"name":"eco"}`)
		})

		Convey("Then a missing file is a read error", func() {
			_, err := Router{}.Read(context.Background(), filepath.Join(dir, "absent.json"))
			So(errors.Is(err, ErrRead), ShouldBeTrue)
		})
	})
}

func TestRouter(t *testing.T) {
	Convey("Given a router with an s3 reader", t, func() {
		stub := &stubDownloader{body: []byte("onnx-bytes")}
		r := Router{S3: &S3{downloader: stub}}

		Convey("When reading an s3 uri", func() {
			b, err := r.Read(context.Background(), "s3://models/eco/v3/model.onnx")

			Convey("Then bucket and key are split", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, "onnx-bytes")
				So(stub.bucket, ShouldEqual, "models")
				So(stub.key, ShouldEqual, "eco/v3/model.onnx")
			})
		})

		Convey("When the download fails", func() {
			stub.err = errors.New("access denied")
			_, err := r.Read(context.Background(), "s3://models/eco.json")

			Convey("Then the error is wrapped", func() {
				So(errors.Is(err, ErrRead), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "access denied")
			})
		})

		Convey("When the scheme is unknown", func() {
			_, err := r.Read(context.Background(), "gs://bucket/model.json")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrUnsupportedScheme), ShouldBeTrue)
			})
		})
	})

	Convey("Given a router without an s3 reader", t, func() {
		_, err := Router{}.Read(context.Background(), "s3://models/eco.json")
		So(errors.Is(err, ErrUnsupportedScheme), ShouldBeTrue)
	})

	Convey("Given NewS3 with static credentials", t, func() {
		ctx := context.Background()
		s, err := NewS3(ctx, S3Config{Region: "us-east-1", Endpoint: "http://127.0.0.1:9000", AccessKey: "k", SecretKey: "s"})
		So(err, ShouldBeNil)
		So(s.downloader, ShouldNotBeNil)

		Convey("Then the configured keys are used", func() {
			creds, err := s.credentials.Retrieve(ctx)
			So(err, ShouldBeNil)
			So(creds.AccessKeyID, ShouldEqual, "k")
			So(creds.SecretAccessKey, ShouldEqual, "s")
		})
	})

	Convey("Given NewS3 without keys", t, func() {
		t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
		t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))
		t.Setenv("AWS_PROFILE", "")
		s, err := NewS3(context.Background(), S3Config{Region: "eu-west-1"})

		Convey("Then the SDK default credential chain is installed", func() {
			So(err, ShouldBeNil)
			So(s.credentials, ShouldNotBeNil)
			So(s.downloader, ShouldNotBeNil)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given references relative to a manifest", t, func() {
		So(Resolve("/models/eco.json", "eco.onnx"), ShouldEqual, filepath.Join("/models", "eco.onnx"))
		So(Resolve("file:///models/eco.json", "eco.onnx"), ShouldEqual, filepath.Join("/models", "eco.onnx"))
		So(Resolve("s3://b/models/eco.json", "eco.onnx"), ShouldEqual, "s3://b/models/eco.onnx")
		So(Resolve("s3://b/eco.json", "eco.onnx"), ShouldEqual, "s3://b/eco.onnx")
		So(Resolve("/models/eco.json", "/abs/eco.onnx"), ShouldEqual, "/abs/eco.onnx")
		So(Resolve("/models/eco.json", "s3://other/eco.onnx"), ShouldEqual, "s3://other/eco.onnx")
		So(Resolve("/models/eco.json", ""), ShouldEqual, "/models/eco.json")
	})

	Convey("Given malformed s3 uris", t, func() {
		for _, uri := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
			_, _, err := SplitS3(uri)
			So(err, ShouldNotBeNil)
		}
	})
}

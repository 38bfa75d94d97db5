package library

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfredjeanlab/archscore/internal/engine"
	"github.com/alfredjeanlab/archscore/internal/model"
)

func TestBuiltinSource(t *testing.T) {
	lib := New(BuiltinSource{}, WithLogger(quietLogger()))
	require.NoError(t, lib.Load(context.Background()))

	for _, cat := range model.ComponentCategories {
		assert.NotEmpty(t, lib.ComponentsByCategory(cat), "category %s", cat)
	}

	tiers := lib.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, "Foundation", tiers[0].Name)
	assert.Equal(t, "Production-Ready", tiers[1].Name)
	assert.Equal(t, "Enterprise-Grade", tiers[2].Name)

	pg, ok := lib.GetComponent("postgresql")
	require.True(t, ok)
	assert.NotEmpty(t, pg.Compatibility[model.CategoryClient])

	web, _ := lib.GetComponent("web-app")
	assert.False(t, engine.CheckCompatibility(web, pg).IsCompatible)
}

func TestBuiltinSource_FreshCopies(t *testing.T) {
	a, err := BuiltinSource{}.Fetch(context.Background())
	require.NoError(t, err)
	b, err := BuiltinSource{}.Fetch(context.Background())
	require.NoError(t, err)

	a.Components[0].Name = "changed"
	assert.NotEqual(t, a.Components[0].Name, b.Components[0].Name)
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(testCatalog(), f)
			require.NoError(t, err)

			got, err := Decode(data, f)
			require.NoError(t, err)
			require.NoError(t, model.ValidateCatalog(got))
			assert.Equal(t, "1.0.0", got.SchemaVersion)
			require.Len(t, got.Components, 3)
			assert.Equal(t, 9, got.Components[0].Metrics[0].NumericValue)
			assert.Equal(t, model.RequireMinComponents, got.Tiers[0].Requirements[0].Kind)
		})
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version":"1.0.0","widgets":[]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode([]byte("schema_version: 1.0.0\nwidgets: []\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode([]byte("x"), Format("xml"))
	assert.Error(t, err)
}

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]Format{
		"catalog.toml":      FormatTOML,
		"a/b/catalog.YAML":  FormatYAML,
		"catalog.yml":       FormatYAML,
		"s3/key/cat.json":   FormatJSON,
		"catalog.txt":       "",
		"no-extension-here": "",
	} {
		got, ok := FormatForPath(path)
		assert.Equal(t, want, got, path)
		assert.Equal(t, want != "", ok, path)
	}
}

func writeCatalog(t *testing.T, path string, cat *model.Catalog) {
	t.Helper()
	require.NoError(t, FileSource{Path: path}.Publish(context.Background(), cat))
}

func TestFileSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeCatalog(t, path, testCatalog())

	lib := New(FileSource{Path: path}, WithLogger(quietLogger()))
	require.NoError(t, lib.Load(context.Background()))
	assert.Len(t, lib.Components(), 3)
}

func TestFileSource_DirectoryMerge(t *testing.T) {
	dir := t.TempDir()

	first := testCatalog()
	second := &model.Catalog{Components: []model.Component{{
		ID: "kafka", Name: "Kafka", Category: model.CategoryMessaging,
		Variants: []model.ConfigurationVariant{{ID: "default", Name: "Default"}},
	}}}
	writeCatalog(t, filepath.Join(dir, "10-core.toml"), first)
	writeCatalog(t, filepath.Join(dir, "20-messaging.json"), second)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	cat, err := FileSource{Path: dir}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cat.SchemaVersion)
	require.Len(t, cat.Components, 4)
	assert.Equal(t, "kafka", cat.Components[3].ID)
	assert.Len(t, cat.Tiers, 1)
}

func TestFileSource_Errors(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.toml")}.Fetch(context.Background())
	assert.Error(t, err)

	_, err = FileSource{Path: t.TempDir()}.Fetch(context.Background())
	assert.ErrorContains(t, err, "no catalog files")

	assert.Error(t, FileSource{Path: "catalog.txt"}.Publish(context.Background(), testCatalog()))
}

// fakeS3 stores objects in memory.
type fakeS3 struct {
	objects map[string][]byte
	err     error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3Source_PublishThenFetch(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	src := &S3Source{client: fake, bucket: "catalogs", key: "prod/catalog.yaml", format: FormatYAML}
	assert.Equal(t, "s3://catalogs/prod/catalog.yaml", src.String())

	require.NoError(t, src.Publish(context.Background(), testCatalog()))
	assert.Contains(t, fake.objects, "catalogs/prod/catalog.yaml")

	lib := New(src, WithLogger(quietLogger()))
	require.NoError(t, lib.Load(context.Background()))
	assert.Len(t, lib.Components(), 3)
}

func TestS3Source_Errors(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, err: errors.New("access denied")}
	src := &S3Source{client: fake, bucket: "b", key: "k.toml", format: FormatTOML}

	_, err := src.Fetch(context.Background())
	assert.ErrorContains(t, err, "s3 get object")
	assert.ErrorContains(t, src.Publish(context.Background(), testCatalog()), "s3 put object")
}

func TestParseLocation(t *testing.T) {
	bucket, key, err := ParseLocation("s3://my-bucket/path/to/catalog.toml")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/catalog.toml", key)

	for _, bad := range []string{"s3://", "s3://bucket", "s3://bucket/", "http://x/y"} {
		_, _, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSource(t *testing.T) {
	ctx := context.Background()

	src, err := ParseSource(ctx, "builtin", S3Options{})
	require.NoError(t, err)
	assert.IsType(t, BuiltinSource{}, src)

	src, err = ParseSource(ctx, "", S3Options{})
	require.NoError(t, err)
	assert.IsType(t, BuiltinSource{}, src)

	src, err = ParseSource(ctx, "./catalog.toml", S3Options{})
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "./catalog.toml"}, src)

	_, err = ParseSource(ctx, "s3://bucket", S3Options{})
	assert.Error(t, err)

	_, err = ParsePublisher(ctx, "builtin", S3Options{})
	assert.Error(t, err)

	pub, err := ParsePublisher(ctx, "out.json", S3Options{})
	require.NoError(t, err)
	assert.Equal(t, "out.json", pub.String())

	assert.NoError(t, CloseSource(src))
}

package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/inkwell/internal/db"
	"gorm.io/gorm"
)

type packagerStub struct {
	meta PackageMeta
	data []byte
	err  error
}

func (p *packagerStub) Package(meta PackageMeta) ([]byte, error) {
	p.meta = meta
	if p.err != nil {
		return nil, p.err
	}
	return p.data, nil
}

func seedDownloadablePost(t *testing.T, gdb *gorm.DB, title, content string) *db.Post {
	t.Helper()
	author := seedUser(t, gdb, "export-author-"+title, db.RoleAuthor)
	category := seedCategory(t, gdb, "Exports for "+title)
	now := gdb.NowFunc()
	post := db.Post{
		Title:          title,
		Slug:           Slugify(title),
		Content:        content,
		CategoryID:     category.ID,
		AuthorID:       author.ID,
		Status:         db.PostStatusPublished,
		PublishedAt:    &now,
		IsDownloadable: true,
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

func TestExportService_PackagesRenderedPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	stub := &packagerStub{data: []byte("epub-bytes")}
	svc := NewExportService(gdb, posts, stub, "inkwell.example.com")

	post := seedDownloadablePost(t, gdb, "Exported Story", "# Heading\n\nSome **bold** prose.")

	result, err := svc.Export(post.Slug)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if string(result.Data) != "epub-bytes" {
		t.Fatalf("packager output not returned")
	}
	if result.Filename != "exported-story.epub" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}
	if result.ContentType != "application/epub+zip" {
		t.Fatalf("unexpected content type %q", result.ContentType)
	}

	if stub.meta.Title != "Exported Story" {
		t.Fatalf("title not passed to packager: %q", stub.meta.Title)
	}
	if stub.meta.Author == "" {
		t.Fatalf("author name not passed to packager")
	}
	if !strings.Contains(stub.meta.HTMLContent, "<h1") {
		t.Fatalf("markdown heading not rendered: %q", stub.meta.HTMLContent)
	}
	if !strings.Contains(stub.meta.HTMLContent, "<strong>bold</strong>") {
		t.Fatalf("markdown emphasis not rendered: %q", stub.meta.HTMLContent)
	}
}

func TestExportService_WatermarkTopAndBottom(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	stub := &packagerStub{data: []byte("x")}
	svc := NewExportService(gdb, posts, stub, "inkwell.example.com")

	post := seedDownloadablePost(t, gdb, "Watermarked Story", "plain prose")

	if _, err := svc.Export(post.Slug); err != nil {
		t.Fatalf("export: %v", err)
	}

	body := stub.meta.HTMLContent
	first := strings.Index(body, "inkwell.example.com")
	last := strings.LastIndex(body, "inkwell.example.com")
	if first == -1 || first == last {
		t.Fatalf("watermark must appear twice, body: %q", body)
	}
	prose := strings.Index(body, "plain prose")
	if prose < first || prose > last {
		t.Fatalf("content not framed by the watermark stamps")
	}
}

func TestExportService_CountsTheDownload(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	stub := &packagerStub{data: []byte("x")}
	svc := NewExportService(gdb, posts, stub, "wm")

	post := seedDownloadablePost(t, gdb, "Counted Story", "prose")

	if _, err := svc.Export(post.Slug); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := svc.Export(post.Slug); err != nil {
		t.Fatalf("export again: %v", err)
	}

	reloaded, err := posts.Get(post.ID)
	if err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.DownloadCount != 2 {
		t.Fatalf("expected download count 2, got %d", reloaded.DownloadCount)
	}
}

func TestExportService_RefusesUnavailablePosts(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	svc := NewExportService(gdb, posts, &packagerStub{data: []byte("x")}, "wm")

	author := seedUser(t, gdb, "locked-export-author", db.RoleAuthor)
	category := seedCategory(t, gdb, "Locked Exports")
	now := gdb.NowFunc()

	locked := db.Post{
		Title: "Locked Story", Slug: "locked-story", Content: "prose",
		CategoryID: category.ID, AuthorID: author.ID,
		Status: db.PostStatusPublished, PublishedAt: &now,
	}
	if err := gdb.Create(&locked).Error; err != nil {
		t.Fatalf("seed locked post: %v", err)
	}
	draft := db.Post{
		Title: "Draft Story", Slug: "draft-story", Content: "prose",
		CategoryID: category.ID, AuthorID: author.ID,
		Status: db.PostStatusDraft, IsDownloadable: true,
	}
	if err := gdb.Create(&draft).Error; err != nil {
		t.Fatalf("seed draft post: %v", err)
	}

	var notFoundErr *NotFoundError
	for _, slug := range []string{"locked-story", "draft-story", "no-such-story"} {
		if _, err := svc.Export(slug); !errors.As(err, &notFoundErr) {
			t.Fatalf("slug %q: expected NotFoundError, got %v", slug, err)
		}
	}

	// Refused exports never move the counter.
	var count int64
	if err := gdb.Model(&db.Post{}).Select("COALESCE(SUM(download_count), 0)").Scan(&count).Error; err != nil {
		t.Fatalf("sum downloads: %v", err)
	}
	if count != 0 {
		t.Fatalf("refused export incremented a counter: %d", count)
	}
}

func TestExportService_PackagerFailureIsSurfaced(t *testing.T) {
	gdb := setupServiceTestDB(t)
	posts := NewPostService(gdb)
	stub := &packagerStub{err: errors.New("container write failed")}
	svc := NewExportService(gdb, posts, stub, "wm")

	post := seedDownloadablePost(t, gdb, "Failing Story", "prose")

	if _, err := svc.Export(post.Slug); err == nil {
		t.Fatalf("expected packaging failure to surface")
	}
}
